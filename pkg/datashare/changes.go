package datashare

import (
	"strings"

	"github.com/navikt/gds-console/pkg/service"
	"github.com/r3labs/diff/v2"
)

// Changes lists what differs between the loaded and the edited draft.
func Changes(loaded, edited service.DataShareDraft) ([]service.DraftChange, error) {
	changelog, err := diff.Diff(loaded, edited, diff.DisableStructValues(), diff.AllowTypeMismatch(true), diff.SliceOrdering(false))
	if err != nil {
		return nil, err
	}

	changes := make([]service.DraftChange, 0, len(changelog))

	for _, c := range changelog {
		changes = append(changes, service.DraftChange{
			Type: c.Type,
			Path: strings.Join(c.Path, "."),
			From: c.From,
			To:   c.To,
		})
	}

	return changes, nil
}

func draftFrom(ds *service.DataShare) service.DataShareDraft {
	if ds == nil {
		return service.DataShareDraft{Principals: service.PrincipalsFromACL(nil)}
	}

	return service.DataShareDraft{
		Name:        ds.Name,
		Description: ds.Description,
		TermsOfUse:  ds.TermsOfUse,
		Principals:  service.PrincipalsFromACL(ds.ACL),
	}
}

func copyDraft(d service.DataShareDraft) service.DataShareDraft {
	d.Principals = service.Principals{
		Users:  append([]service.Principal{}, d.Principals.Users...),
		Groups: append([]service.Principal{}, d.Principals.Groups...),
		Roles:  append([]service.Principal{}, d.Principals.Roles...),
	}

	return d
}
