package service

import (
	"context"
	"encoding/json"
	"time"
)

// DataShareAPI is the upstream governed data sharing API.
type DataShareAPI interface {
	GetDataShare(ctx context.Context, id int64) (*DataShare, error)
	UpdateDataShare(ctx context.Context, ds *DataShare) (*DataShare, error)
	DeleteDataShare(ctx context.Context, id int64, forceDelete bool) error
	GetServiceByName(ctx context.Context, name string) (*ServiceDescriptor, error)
	GetServiceDefByName(ctx context.Context, name string) (*ServiceDef, error)
	ListSharedResources(ctx context.Context, q ListQuery) (*Page[SharedResource], error)
	CreateSharedResource(ctx context.Context, r *SharedResource) (*SharedResource, error)
	UpdateSharedResource(ctx context.Context, r *SharedResource) (*SharedResource, error)
	DeleteSharedResource(ctx context.Context, id int64) error
	ListDataShareDatasets(ctx context.Context, q ListQuery) (*Page[DataShareDataset], error)
	UpdateDataShareDataset(ctx context.Context, d *DataShareDataset) (*DataShareDataset, error)
	DeleteDataShareDataset(ctx context.Context, id int64) error
}

// DataShareAnnouncer informs interested parties about destructive changes.
type DataShareAnnouncer interface {
	InformDataShareDeleted(ctx context.Context, ds *DataShare, deletedBy string) error
}

type DataShareViewService interface {
	OpenView(ctx context.Context, input OpenViewInput) (*DataShareViewState, error)
	GetView(ctx context.Context, viewID string) (*DataShareViewState, error)
	CloseView(ctx context.Context, viewID string) error
	BeginEdit(ctx context.Context, viewID string) (*DataShareViewState, error)
	UpdateDraft(ctx context.Context, viewID string, input DraftInput) (*DataShareViewState, error)
	Save(ctx context.Context, viewID string) (*DataShareViewState, error)
	CancelEdit(ctx context.Context, viewID string) (*DataShareViewState, error)
	SelectTab(ctx context.Context, viewID string, tab Tab) (*DataShareViewState, error)
	ResolveDiscard(ctx context.Context, viewID string, save bool) (*DataShareViewState, error)
	ListResources(ctx context.Context, viewID string, input ListInput) (*DataShareViewState, error)
	ListRequests(ctx context.Context, viewID string, input ListInput) (*DataShareViewState, error)
	AcceptRequest(ctx context.Context, viewID string, requestID int64) (*DataShareViewState, error)
	OpenModal(ctx context.Context, viewID string, input OpenModalInput) (*DataShareViewState, error)
	ConfirmModal(ctx context.Context, viewID string) (*DataShareViewState, error)
	CloseModal(ctx context.Context, viewID string) (*DataShareViewState, error)
	SubmitResource(ctx context.Context, viewID string, r *SharedResource) (*DataShareViewState, error)
	Export(ctx context.Context, viewID string) (*ExportFile, error)
}

// ViewStorage keeps live views between requests.
type ViewStorage[V any] interface {
	Add(v V) (string, error)
	Get(id string) (V, error)
	Delete(id string) error
	Len() int
}

type Permission string

const (
	PermissionNone        Permission = "NONE"
	PermissionList        Permission = "LIST"
	PermissionView        Permission = "VIEW"
	PermissionAudit       Permission = "AUDIT"
	PermissionPolicyAdmin Permission = "POLICY_ADMIN"
	PermissionAdmin       Permission = "ADMIN"
)

type ACL struct {
	Users  map[string]Permission `json:"users"`
	Groups map[string]Permission `json:"groups"`
	Roles  map[string]Permission `json:"roles"`
}

type TagMask struct {
	TagName  string          `json:"tagName"`
	MaskInfo json.RawMessage `json:"maskInfo,omitempty"`
}

type DataShare struct {
	ID                 int64             `json:"id"`
	GUID               string            `json:"guid,omitempty"`
	IsEnabled          bool              `json:"isEnabled"`
	Version            int64             `json:"version,omitempty"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	TermsOfUse         string            `json:"termsOfUse"`
	Service            string            `json:"service"`
	Zone               string            `json:"zone,omitempty"`
	ConditionExpr      string            `json:"conditionExpr,omitempty"`
	DefaultAccessTypes []string          `json:"defaultAccessTypes,omitempty"`
	DefaultTagMasks    []TagMask         `json:"defaultTagMasks,omitempty"`
	ACL                *ACL              `json:"acl,omitempty"`
	Options            map[string]any    `json:"options,omitempty"`
	AdditionalInfo     map[string]string `json:"additionalInfo,omitempty"`
	CreatedBy          string            `json:"createdBy,omitempty"`
	UpdatedBy          string            `json:"updatedBy,omitempty"`
	CreateTime         *time.Time        `json:"createTime,omitempty"`
	UpdateTime         *time.Time        `json:"updateTime,omitempty"`
}

type PolicyResource struct {
	Values      []string `json:"values"`
	IsExcludes  bool     `json:"isExcludes"`
	IsRecursive bool     `json:"isRecursive"`
}

type RowFilter struct {
	FilterExpr string `json:"filterExpr"`
}

type SharedResource struct {
	ID              int64                     `json:"id"`
	GUID            string                    `json:"guid,omitempty"`
	Version         int64                     `json:"version,omitempty"`
	Name            string                    `json:"name"`
	DataShareID     int64                     `json:"dataShareId"`
	Resource        map[string]PolicyResource `json:"resource"`
	SubResource     *PolicyResource           `json:"subResource,omitempty"`
	SubResourceType string                    `json:"subResourceType,omitempty"`
	AccessTypes     []string                  `json:"accessTypes"`
	ConditionExpr   string                    `json:"conditionExpr,omitempty"`
	RowFilter       *RowFilter                `json:"rowFilter,omitempty"`
	Profiles        []string                  `json:"profiles,omitempty"`
	Description     string                    `json:"description,omitempty"`
	CreatedBy       string                    `json:"createdBy,omitempty"`
	UpdatedBy       string                    `json:"updatedBy,omitempty"`
	CreateTime      *time.Time                `json:"createTime,omitempty"`
	UpdateTime      *time.Time                `json:"updateTime,omitempty"`
}

type DataShareDatasetStatus string

// The upstream status vocabulary for a datashare in a dataset.
const (
	DataShareDatasetStatusNone      DataShareDatasetStatus = "NONE"
	DataShareDatasetStatusRequested DataShareDatasetStatus = "REQUESTED"
	DataShareDatasetStatusGranted   DataShareDatasetStatus = "GRANTED"
	DataShareDatasetStatusDenied    DataShareDatasetStatus = "DENIED"
	DataShareDatasetStatusActive    DataShareDatasetStatus = "ACTIVE"
)

// DataShareDataset is a dataset's request to consume a datashare, or the
// link itself once it is active.
type DataShareDataset struct {
	ID            int64                  `json:"id"`
	DataShareID   int64                  `json:"dataShareId"`
	DataShareName string                 `json:"dataShareName,omitempty"`
	DatasetID     int64                  `json:"datasetId"`
	DatasetName   string                 `json:"name,omitempty"`
	Status        DataShareDatasetStatus `json:"status"`
	Approver      string                 `json:"approver,omitempty"`
	CreatedBy     string                 `json:"createdBy,omitempty"`
	CreateTime    *time.Time             `json:"createTime,omitempty"`
	UpdateTime    *time.Time             `json:"updateTime,omitempty"`
}

type ServiceDescriptor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	IsEnabled   bool   `json:"isEnabled"`
}

type ResourceDef struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Level     int    `json:"level"`
	Parent    string `json:"parent,omitempty"`
	Mandatory bool   `json:"mandatory"`
	Label     string `json:"label,omitempty"`
}

type AccessTypeDef struct {
	ItemID        int64    `json:"itemId"`
	Name          string   `json:"name"`
	Label         string   `json:"label,omitempty"`
	ImpliedGrants []string `json:"impliedGrants,omitempty"`
}

type PolicyConditionDef struct {
	ItemID int64  `json:"itemId"`
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
}

type ServiceDef struct {
	ID               int64                `json:"id"`
	Name             string               `json:"name"`
	DisplayName      string               `json:"displayName,omitempty"`
	Resources        []ResourceDef        `json:"resources"`
	AccessTypes      []AccessTypeDef      `json:"accessTypes"`
	PolicyConditions []PolicyConditionDef `json:"policyConditions,omitempty"`
}

type Page[T any] struct {
	List       []T `json:"list"`
	StartIndex int `json:"startIndex"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	ResultSize int `json:"resultSize"`
}

type ListQuery struct {
	DataShareID int64
	Page        int
	PageSize    int
	StartIndex  int
	Filter      map[string]string
}

type DataShareExport struct {
	*DataShare
	Resources []SharedResource   `json:"resources"`
	Datasets  []DataShareDataset `json:"datasets"`
}

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
