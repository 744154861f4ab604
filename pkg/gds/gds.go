// Package gds provides a client for the governed data sharing endpoints of
// the Apache Ranger admin REST API.
// - https://ranger.apache.org/apidocs/resource_GdsREST.html
package gds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	// Ranger rejects state changing calls from browser-like clients
	// without this header.
	XSRFHeader = "X-XSRF-HEADER"
	XSRFValue  = "valid"
)

type Operations interface {
	GetDataShare(ctx context.Context, id int64) (*DataShare, error)
	UpdateDataShare(ctx context.Context, id int64, ds *DataShare) (*DataShare, error)
	DeleteDataShare(ctx context.Context, id int64, forceDelete bool) error
	GetServiceByName(ctx context.Context, name string) (*Service, error)
	GetServiceDefByName(ctx context.Context, name string) (*ServiceDef, error)
	SearchSharedResources(ctx context.Context, params SearchParams) (*SharedResources, error)
	CreateSharedResource(ctx context.Context, r *SharedResource) (*SharedResource, error)
	UpdateSharedResource(ctx context.Context, id int64, r *SharedResource) (*SharedResource, error)
	DeleteSharedResource(ctx context.Context, id int64) error
	SearchDataShareDatasets(ctx context.Context, params SearchParams) (*DataShareDatasets, error)
	UpdateDataShareDataset(ctx context.Context, id int64, d *DataShareDataset) (*DataShareDataset, error)
	DeleteDataShareDataset(ctx context.Context, id int64) error
}

type Client struct {
	client   *http.Client
	apiURL   string
	username string
	password string
}

type ACL struct {
	Users  map[string]string `json:"users"`
	Groups map[string]string `json:"groups"`
	Roles  map[string]string `json:"roles"`
}

type TagMaskInfo struct {
	TagName  string          `json:"tagName"`
	MaskInfo json.RawMessage `json:"maskInfo,omitempty"`
}

type DataShare struct {
	ID                 int64             `json:"id,omitempty"`
	GUID               string            `json:"guid,omitempty"`
	IsEnabled          bool              `json:"isEnabled"`
	CreatedBy          string            `json:"createdBy,omitempty"`
	UpdatedBy          string            `json:"updatedBy,omitempty"`
	CreateTime         int64             `json:"createTime,omitempty"`
	UpdateTime         int64             `json:"updateTime,omitempty"`
	Version            int64             `json:"version,omitempty"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	TermsOfUse         string            `json:"termsOfUse,omitempty"`
	Service            string            `json:"service"`
	Zone               string            `json:"zone,omitempty"`
	ConditionExpr      string            `json:"conditionExpr,omitempty"`
	DefaultAccessTypes []string          `json:"defaultAccessTypes,omitempty"`
	DefaultTagMasks    []TagMaskInfo     `json:"defaultTagMasks,omitempty"`
	ACL                *ACL              `json:"acl,omitempty"`
	Options            map[string]any    `json:"options,omitempty"`
	AdditionalInfo     map[string]string `json:"additionalInfo,omitempty"`
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
	ID              int64                     `json:"id,omitempty"`
	GUID            string                    `json:"guid,omitempty"`
	CreatedBy       string                    `json:"createdBy,omitempty"`
	UpdatedBy       string                    `json:"updatedBy,omitempty"`
	CreateTime      int64                     `json:"createTime,omitempty"`
	UpdateTime      int64                     `json:"updateTime,omitempty"`
	Version         int64                     `json:"version,omitempty"`
	Name            string                    `json:"name"`
	DataShareID     int64                     `json:"dataShareId"`
	Resource        map[string]PolicyResource `json:"resource"`
	SubResource     *PolicyResource           `json:"subResource,omitempty"`
	SubResourceType string                    `json:"subResourceType,omitempty"`
	ConditionExpr   string                    `json:"conditionExpr,omitempty"`
	AccessTypes     []string                  `json:"accessTypes,omitempty"`
	RowFilter       *RowFilter                `json:"rowFilter,omitempty"`
	Profiles        []string                  `json:"profiles,omitempty"`
	Description     string                    `json:"description,omitempty"`
}

type DataShareDataset struct {
	ID            int64  `json:"id"`
	CreatedBy     string `json:"createdBy,omitempty"`
	UpdatedBy     string `json:"updatedBy,omitempty"`
	CreateTime    int64  `json:"createTime,omitempty"`
	UpdateTime    int64  `json:"updateTime,omitempty"`
	DataShareID   int64  `json:"dataShareId"`
	DataShareName string `json:"dataShareName,omitempty"`
	DatasetID     int64  `json:"datasetId"`
	DatasetName   string `json:"datasetName,omitempty"`
	Status        string `json:"status"`
	Approver      string `json:"approver,omitempty"`
}

type Service struct {
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

// PList is the paged list envelope Ranger wraps search results in.
type PList[T any] struct {
	StartIndex int `json:"startIndex"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	ResultSize int `json:"resultSize"`
	List       []T `json:"list"`
}

type SharedResources = PList[SharedResource]

type DataShareDatasets = PList[DataShareDataset]

type SearchParams struct {
	DataShareID int64
	Page        int
	PageSize    int
	StartIndex  int
	Filter      map[string]string
}

func (p SearchParams) Values() url.Values {
	v := url.Values{}

	for key, val := range p.Filter {
		v.Set(key, val)
	}

	v.Set("dataShareId", strconv.FormatInt(p.DataShareID, 10))
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	v.Set("startIndex", strconv.Itoa(p.StartIndex))

	return v
}

// Error is returned for every non-2xx response. Ranger describes the
// failure in msgDesc.
type Error struct {
	HTTPStatus int    `json:"-"`
	StatusCode int    `json:"statusCode"`
	MsgDesc    string `json:"msgDesc"`
}

func (e *Error) Error() string {
	if e.MsgDesc == "" {
		return fmt.Sprintf("unexpected status code: %d", e.HTTPStatus)
	}

	return fmt.Sprintf("unexpected status code: %d: %s", e.HTTPStatus, e.MsgDesc)
}

// Description returns the backend supplied message, if any.
func (e *Error) Description() string {
	return e.MsgDesc
}

func (c *Client) GetDataShare(ctx context.Context, id int64) (*DataShare, error) {
	ds := &DataShare{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, fmt.Sprintf("/gds/datashare/%d", id), nil, nil, ds)
	if err != nil {
		return nil, err
	}

	return ds, nil
}

func (c *Client) UpdateDataShare(ctx context.Context, id int64, ds *DataShare) (*DataShare, error) {
	updated := &DataShare{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodPut, fmt.Sprintf("/gds/datashare/%d", id), nil, ds, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *Client) DeleteDataShare(ctx context.Context, id int64, forceDelete bool) error {
	q := url.Values{}
	q.Set("forceDelete", strconv.FormatBool(forceDelete))

	return c.sendRequestAndDeserialize(ctx, http.MethodDelete, fmt.Sprintf("/gds/datashare/%d", id), q, nil, nil)
}

func (c *Client) GetServiceByName(ctx context.Context, name string) (*Service, error) {
	svc := &Service{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, "/plugins/services/name/"+url.PathEscape(name), nil, nil, svc)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func (c *Client) GetServiceDefByName(ctx context.Context, name string) (*ServiceDef, error) {
	def := &ServiceDef{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, "/plugins/definitions/name/"+url.PathEscape(name), nil, nil, def)
	if err != nil {
		return nil, err
	}

	return def, nil
}

func (c *Client) SearchSharedResources(ctx context.Context, params SearchParams) (*SharedResources, error) {
	res := &SharedResources{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, "/gds/resource", params.Values(), nil, res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (c *Client) CreateSharedResource(ctx context.Context, r *SharedResource) (*SharedResource, error) {
	created := &SharedResource{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodPost, "/gds/resource", nil, r, created)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (c *Client) UpdateSharedResource(ctx context.Context, id int64, r *SharedResource) (*SharedResource, error) {
	updated := &SharedResource{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodPut, fmt.Sprintf("/gds/resource/%d", id), nil, r, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *Client) DeleteSharedResource(ctx context.Context, id int64) error {
	return c.sendRequestAndDeserialize(ctx, http.MethodDelete, fmt.Sprintf("/gds/resource/%d", id), nil, nil, nil)
}

func (c *Client) SearchDataShareDatasets(ctx context.Context, params SearchParams) (*DataShareDatasets, error) {
	res := &DataShareDatasets{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, "/gds/datashare/dataset", params.Values(), nil, res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (c *Client) UpdateDataShareDataset(ctx context.Context, id int64, d *DataShareDataset) (*DataShareDataset, error) {
	updated := &DataShareDataset{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodPut, fmt.Sprintf("/gds/datashare/dataset/%d", id), nil, d, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *Client) DeleteDataShareDataset(ctx context.Context, id int64) error {
	return c.sendRequestAndDeserialize(ctx, http.MethodDelete, fmt.Sprintf("/gds/datashare/dataset/%d", id), nil, nil, nil)
}

func (c *Client) sendRequestAndDeserialize(ctx context.Context, method, path string, query url.Values, body, into any) error {
	var data []byte

	if body != nil {
		var err error

		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling body: %w", err)
		}
	}

	req, err := c.newRequestWithHeaders(ctx, method, path, query, data)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}

	if into == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(into)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func decodeError(res *http.Response) error {
	e := &Error{}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		// Not every error carries a VXResponse body, ignore the ones that don't
		_ = json.Unmarshal(raw, e)
	}

	e.HTTPStatus = res.StatusCode

	return e
}

func (c *Client) newRequestWithHeaders(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	u := strings.TrimSuffix(c.apiURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(XSRFHeader, XSRFValue)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	return req, nil
}

func New(apiURL, username, password string, client *http.Client) *Client {
	return &Client{
		client:   client,
		apiURL:   apiURL,
		username: username,
		password: password,
	}
}
