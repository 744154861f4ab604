package service

import (
	"time"
)

type LoadState string

const (
	LoadStateIdle    LoadState = "idle"
	LoadStateLoading LoadState = "loading"
	LoadStateLoaded  LoadState = "loaded"
	LoadStateFailed  LoadState = "failed"
)

type EditState string

const (
	EditStateViewing           EditState = "viewing"
	EditStateEditing           EditState = "editing"
	EditStateConfirmingDiscard EditState = "confirmingDiscard"
)

type Tab string

const (
	TabOverview   Tab = "overview"
	TabResources  Tab = "resources"
	TabSharedWith Tab = "sharedWith"
	TabTermsOfUse Tab = "termsOfUse"
)

func (t Tab) Valid() bool {
	switch t {
	case TabOverview, TabResources, TabSharedWith, TabTermsOfUse:
		return true
	}

	return false
}

type ModalKind string

const (
	ModalDeleteResource  ModalKind = "deleteResource"
	ModalDeleteRequest   ModalKind = "deleteRequest"
	ModalDeleteDataShare ModalKind = "deleteDataShare"
	ModalConditions      ModalKind = "conditions"
	ModalResourceEditor  ModalKind = "resourceEditor"
	// ModalConfirmDiscard is reported while the edit state is
	// confirmingDiscard; it cannot be opened directly.
	ModalConfirmDiscard ModalKind = "confirmDiscard"
)

type PrincipalType string

const (
	PrincipalTypeUser  PrincipalType = "USER"
	PrincipalTypeGroup PrincipalType = "GROUP"
	PrincipalTypeRole  PrincipalType = "ROLE"
)

type Principal struct {
	Name string        `json:"name" diff:"name,identifier"`
	Type PrincipalType `json:"type" diff:"type"`
	Perm Permission    `json:"perm" diff:"perm"`
}

type Principals struct {
	Users  []Principal `json:"users" diff:"users"`
	Groups []Principal `json:"groups" diff:"groups"`
	Roles  []Principal `json:"roles" diff:"roles"`
}

// DataShareDraft holds the editable fields of a datashare.
type DataShareDraft struct {
	Name        string     `json:"name" diff:"name"`
	Description string     `json:"description" diff:"description"`
	TermsOfUse  string     `json:"termsOfUse" diff:"termsOfUse"`
	Principals  Principals `json:"principals" diff:"principals"`
}

type DraftChange struct {
	Type string `json:"type"`
	Path string `json:"path"`
	From any    `json:"from,omitempty"`
	To   any    `json:"to,omitempty"`
}

type ListState[T any] struct {
	Items      []T               `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	PageCount  int               `json:"pageCount"`
	TotalCount int               `json:"totalCount"`
	Filter     map[string]string `json:"filter,omitempty"`
	LoadState  LoadState         `json:"loadState"`
}

type ModalState struct {
	Kind       ModalKind         `json:"kind"`
	TargetID   int64             `json:"targetId,omitempty"`
	TargetName string            `json:"targetName,omitempty"`
	Message    string            `json:"message,omitempty"`
	Resource   *SharedResource   `json:"resource,omitempty"`
	Request    *DataShareDataset `json:"request,omitempty"`
}

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	Time    time.Time         `json:"time"`
}

type ViewPermissions struct {
	CanEdit            bool `json:"canEdit"`
	CanAddResources    bool `json:"canAddResources"`
	CanManageResources bool `json:"canManageResources"`
	CanAcceptRequests  bool `json:"canAcceptRequests"`
	CanDeleteRequests  bool `json:"canDeleteRequests"`
	CanDeleteDataShare bool `json:"canDeleteDataShare"`
}

type ViewLinks struct {
	Self     string `json:"self"`
	FullView string `json:"fullView"`
	Listing  string `json:"listing"`
}

type DataShareViewState struct {
	ViewID            string                      `json:"viewId"`
	DataShareID       int64                       `json:"dataShareId"`
	LoadState         LoadState                   `json:"loadState"`
	EditState         EditState                   `json:"editState"`
	SaveCancelVisible bool                        `json:"saveCancelVisible"`
	Tab               Tab                         `json:"tab"`
	PendingTab        Tab                         `json:"pendingTab,omitempty"`
	DataShare         *DataShare                  `json:"dataShare,omitempty"`
	Service           *ServiceDescriptor          `json:"service,omitempty"`
	ServiceDef        *ServiceDef                 `json:"serviceDef,omitempty"`
	Draft             DataShareDraft              `json:"draft"`
	PendingChanges    []DraftChange               `json:"pendingChanges"`
	Permissions       ViewPermissions             `json:"permissions"`
	Resources         ListState[SharedResource]   `json:"resources"`
	Requests          ListState[DataShareDataset] `json:"requests"`
	Modal             *ModalState                 `json:"modal,omitempty"`
	Notifications     []Notification              `json:"notifications"`
	Redirect          string                      `json:"redirect,omitempty"`
	Links             ViewLinks                   `json:"links"`
}

// Actor is who drives a view. The permission is supplied by the caller;
// the upstream API enforces it.
type Actor struct {
	Name        string     `json:"name"`
	SystemAdmin bool       `json:"systemAdmin"`
	Permission  Permission `json:"userAclPerm"`
}

type OpenViewInput struct {
	DataShareID int64 `json:"dataShareId"`
	Actor
}

type DraftInput struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	TermsOfUse  *string     `json:"termsOfUse"`
	Principals  *Principals `json:"principals"`
}

type SearchToken struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

type ListInput struct {
	Page   int           `json:"page"`
	Search []SearchToken `json:"search"`
}

type OpenModalInput struct {
	Kind     ModalKind `json:"kind"`
	TargetID int64     `json:"targetId"`
}

type TabInput struct {
	Tab Tab `json:"tab"`
}

type DiscardInput struct {
	Save bool `json:"save"`
}
