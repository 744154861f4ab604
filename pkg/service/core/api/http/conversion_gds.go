package http

import (
	"time"

	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/service"
)

func fromMillis(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}

	t := time.UnixMilli(ms).UTC()

	return &t
}

func toMillis(t *time.Time) int64 {
	if t == nil {
		return 0
	}

	return t.UnixMilli()
}

func aclFromWire(acl *gds.ACL) *service.ACL {
	if acl == nil {
		return nil
	}

	return &service.ACL{
		Users:  permissionsFromWire(acl.Users),
		Groups: permissionsFromWire(acl.Groups),
		Roles:  permissionsFromWire(acl.Roles),
	}
}

func permissionsFromWire(in map[string]string) map[string]service.Permission {
	out := make(map[string]service.Permission, len(in))
	for name, perm := range in {
		out[name] = service.Permission(perm)
	}

	return out
}

func aclToWire(acl *service.ACL) *gds.ACL {
	if acl == nil {
		return nil
	}

	return &gds.ACL{
		Users:  permissionsToWire(acl.Users),
		Groups: permissionsToWire(acl.Groups),
		Roles:  permissionsToWire(acl.Roles),
	}
}

func permissionsToWire(in map[string]service.Permission) map[string]string {
	out := make(map[string]string, len(in))
	for name, perm := range in {
		out[name] = string(perm)
	}

	return out
}

func dataShareFromWire(ds *gds.DataShare) *service.DataShare {
	if ds == nil {
		return nil
	}

	var masks []service.TagMask
	for _, m := range ds.DefaultTagMasks {
		masks = append(masks, service.TagMask{TagName: m.TagName, MaskInfo: m.MaskInfo})
	}

	return &service.DataShare{
		ID:                 ds.ID,
		GUID:               ds.GUID,
		IsEnabled:          ds.IsEnabled,
		Version:            ds.Version,
		Name:               ds.Name,
		Description:        ds.Description,
		TermsOfUse:         ds.TermsOfUse,
		Service:            ds.Service,
		Zone:               ds.Zone,
		ConditionExpr:      ds.ConditionExpr,
		DefaultAccessTypes: ds.DefaultAccessTypes,
		DefaultTagMasks:    masks,
		ACL:                aclFromWire(ds.ACL),
		Options:            ds.Options,
		AdditionalInfo:     ds.AdditionalInfo,
		CreatedBy:          ds.CreatedBy,
		UpdatedBy:          ds.UpdatedBy,
		CreateTime:         fromMillis(ds.CreateTime),
		UpdateTime:         fromMillis(ds.UpdateTime),
	}
}

func dataShareToWire(ds *service.DataShare) *gds.DataShare {
	var masks []gds.TagMaskInfo
	for _, m := range ds.DefaultTagMasks {
		masks = append(masks, gds.TagMaskInfo{TagName: m.TagName, MaskInfo: m.MaskInfo})
	}

	return &gds.DataShare{
		ID:                 ds.ID,
		GUID:               ds.GUID,
		IsEnabled:          ds.IsEnabled,
		Version:            ds.Version,
		Name:               ds.Name,
		Description:        ds.Description,
		TermsOfUse:         ds.TermsOfUse,
		Service:            ds.Service,
		Zone:               ds.Zone,
		ConditionExpr:      ds.ConditionExpr,
		DefaultAccessTypes: ds.DefaultAccessTypes,
		DefaultTagMasks:    masks,
		ACL:                aclToWire(ds.ACL),
		Options:            ds.Options,
		AdditionalInfo:     ds.AdditionalInfo,
		CreatedBy:          ds.CreatedBy,
		UpdatedBy:          ds.UpdatedBy,
		CreateTime:         toMillis(ds.CreateTime),
		UpdateTime:         toMillis(ds.UpdateTime),
	}
}

func policyResourcesFromWire(in map[string]gds.PolicyResource) map[string]service.PolicyResource {
	out := make(map[string]service.PolicyResource, len(in))
	for name, r := range in {
		out[name] = service.PolicyResource{Values: r.Values, IsExcludes: r.IsExcludes, IsRecursive: r.IsRecursive}
	}

	return out
}

func policyResourcesToWire(in map[string]service.PolicyResource) map[string]gds.PolicyResource {
	out := make(map[string]gds.PolicyResource, len(in))
	for name, r := range in {
		out[name] = gds.PolicyResource{Values: r.Values, IsExcludes: r.IsExcludes, IsRecursive: r.IsRecursive}
	}

	return out
}

func sharedResourceFromWire(r gds.SharedResource) service.SharedResource {
	out := service.SharedResource{
		ID:              r.ID,
		GUID:            r.GUID,
		Version:         r.Version,
		Name:            r.Name,
		DataShareID:     r.DataShareID,
		Resource:        policyResourcesFromWire(r.Resource),
		SubResourceType: r.SubResourceType,
		AccessTypes:     r.AccessTypes,
		ConditionExpr:   r.ConditionExpr,
		Profiles:        r.Profiles,
		Description:     r.Description,
		CreatedBy:       r.CreatedBy,
		UpdatedBy:       r.UpdatedBy,
		CreateTime:      fromMillis(r.CreateTime),
		UpdateTime:      fromMillis(r.UpdateTime),
	}

	if r.SubResource != nil {
		out.SubResource = &service.PolicyResource{
			Values:      r.SubResource.Values,
			IsExcludes:  r.SubResource.IsExcludes,
			IsRecursive: r.SubResource.IsRecursive,
		}
	}

	if r.RowFilter != nil {
		out.RowFilter = &service.RowFilter{FilterExpr: r.RowFilter.FilterExpr}
	}

	return out
}

func sharedResourceToWire(r *service.SharedResource) *gds.SharedResource {
	out := &gds.SharedResource{
		ID:              r.ID,
		GUID:            r.GUID,
		Version:         r.Version,
		Name:            r.Name,
		DataShareID:     r.DataShareID,
		Resource:        policyResourcesToWire(r.Resource),
		SubResourceType: r.SubResourceType,
		AccessTypes:     r.AccessTypes,
		ConditionExpr:   r.ConditionExpr,
		Profiles:        r.Profiles,
		Description:     r.Description,
	}

	if r.SubResource != nil {
		out.SubResource = &gds.PolicyResource{
			Values:      r.SubResource.Values,
			IsExcludes:  r.SubResource.IsExcludes,
			IsRecursive: r.SubResource.IsRecursive,
		}
	}

	if r.RowFilter != nil {
		out.RowFilter = &gds.RowFilter{FilterExpr: r.RowFilter.FilterExpr}
	}

	return out
}

func dataShareDatasetFromWire(d gds.DataShareDataset) service.DataShareDataset {
	return service.DataShareDataset{
		ID:            d.ID,
		DataShareID:   d.DataShareID,
		DataShareName: d.DataShareName,
		DatasetID:     d.DatasetID,
		DatasetName:   d.DatasetName,
		Status:        service.DataShareDatasetStatus(d.Status),
		Approver:      d.Approver,
		CreatedBy:     d.CreatedBy,
		CreateTime:    fromMillis(d.CreateTime),
		UpdateTime:    fromMillis(d.UpdateTime),
	}
}

func dataShareDatasetToWire(d *service.DataShareDataset) *gds.DataShareDataset {
	return &gds.DataShareDataset{
		ID:            d.ID,
		DataShareID:   d.DataShareID,
		DataShareName: d.DataShareName,
		DatasetID:     d.DatasetID,
		DatasetName:   d.DatasetName,
		Status:        string(d.Status),
		Approver:      d.Approver,
		CreatedBy:     d.CreatedBy,
		CreateTime:    toMillis(d.CreateTime),
		UpdateTime:    toMillis(d.UpdateTime),
	}
}

func serviceDefFromWire(def *gds.ServiceDef) *service.ServiceDef {
	out := &service.ServiceDef{
		ID:          def.ID,
		Name:        def.Name,
		DisplayName: def.DisplayName,
	}

	for _, r := range def.Resources {
		out.Resources = append(out.Resources, service.ResourceDef{
			ItemID:    r.ItemID,
			Name:      r.Name,
			Type:      r.Type,
			Level:     r.Level,
			Parent:    r.Parent,
			Mandatory: r.Mandatory,
			Label:     r.Label,
		})
	}

	for _, at := range def.AccessTypes {
		out.AccessTypes = append(out.AccessTypes, service.AccessTypeDef{
			ItemID:        at.ItemID,
			Name:          at.Name,
			Label:         at.Label,
			ImpliedGrants: at.ImpliedGrants,
		})
	}

	for _, c := range def.PolicyConditions {
		out.PolicyConditions = append(out.PolicyConditions, service.PolicyConditionDef{
			ItemID: c.ItemID,
			Name:   c.Name,
			Label:  c.Label,
		})
	}

	return out
}

func searchParams(q service.ListQuery) gds.SearchParams {
	return gds.SearchParams{
		DataShareID: q.DataShareID,
		Page:        q.Page,
		PageSize:    q.PageSize,
		StartIndex:  q.StartIndex,
		Filter:      q.Filter,
	}
}

func pageFromWire[W, T any](in *gds.PList[W], conv func(W) T) *service.Page[T] {
	out := &service.Page[T]{
		List:       make([]T, 0, len(in.List)),
		StartIndex: in.StartIndex,
		PageSize:   in.PageSize,
		TotalCount: in.TotalCount,
		ResultSize: in.ResultSize,
	}

	for _, item := range in.List {
		out.List = append(out.List, conv(item))
	}

	return out
}
