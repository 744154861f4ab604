package memory

import (
	"context"
	"fmt"

	"github.com/navikt/gds-console/pkg/cache"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
)

var _ service.DataShareAPI = &dataShareAPICache{}

// dataShareAPICache caches the service lookups, which change rarely and are
// needed every time a view is opened. Everything else goes straight through.
type dataShareAPICache struct {
	service.DataShareAPI
	cache cache.Cacher
}

func (c *dataShareAPICache) GetServiceByName(ctx context.Context, name string) (*service.ServiceDescriptor, error) {
	const op errs.Op = "dataShareAPICache.GetServiceByName"

	key := fmt.Sprintf("gds:service:%s", name)

	svc := &service.ServiceDescriptor{}
	valid := c.cache.Get(key, svc)
	if valid {
		return svc, nil
	}

	svc, err := c.DataShareAPI.GetServiceByName(ctx, name)
	if err != nil {
		return nil, errs.E(op, err)
	}

	c.cache.Set(key, svc)

	return svc, nil
}

func (c *dataShareAPICache) GetServiceDefByName(ctx context.Context, name string) (*service.ServiceDef, error) {
	const op errs.Op = "dataShareAPICache.GetServiceDefByName"

	key := fmt.Sprintf("gds:servicedef:%s", name)

	def := &service.ServiceDef{}
	valid := c.cache.Get(key, def)
	if valid {
		return def, nil
	}

	def, err := c.DataShareAPI.GetServiceDefByName(ctx, name)
	if err != nil {
		return nil, errs.E(op, err)
	}

	c.cache.Set(key, def)

	return def, nil
}

func NewDataShareAPICache(api service.DataShareAPI, cache cache.Cacher) *dataShareAPICache {
	return &dataShareAPICache{
		DataShareAPI: api,
		cache:        cache,
	}
}
