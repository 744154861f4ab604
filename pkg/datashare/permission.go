package datashare

import (
	"github.com/navikt/gds-console/pkg/service"
)

// Permissions derives what the actor may do on the page. The upstream API
// makes the final decision.
func Permissions(a service.Actor) service.ViewPermissions {
	admin := a.SystemAdmin || a.Permission == service.PermissionAdmin

	return service.ViewPermissions{
		CanEdit:            admin,
		CanAddResources:    admin,
		CanManageResources: admin,
		CanAcceptRequests:  admin,
		CanDeleteRequests:  a.SystemAdmin || canActOnRequests(a.Permission),
		CanDeleteDataShare: admin,
	}
}

func canActOnRequests(p service.Permission) bool {
	switch p {
	case "", service.PermissionNone, service.PermissionView:
		return false
	}

	return true
}
