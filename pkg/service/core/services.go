package core

import "github.com/navikt/gds-console/pkg/service"

type Services struct {
	DataShareViewService service.DataShareViewService
}

func NewServices(
	dataShareViewService service.DataShareViewService,
) *Services {
	return &Services{
		DataShareViewService: dataShareViewService,
	}
}
