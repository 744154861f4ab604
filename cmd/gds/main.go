package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/rs/zerolog"
)

var (
	data = flag.String("data", "resources/gds/fixture.json", "Path to the JSON file to serve")
	port = flag.String("port", "6080", "Port to run the HTTP server on")
)

type Data struct {
	DataShares  []gds.DataShare        `json:"datashares"`
	Services    []gds.Service          `json:"services"`
	ServiceDefs []gds.ServiceDef       `json:"service_defs"`
	Resources   []gds.SharedResource   `json:"resources"`
	Datasets    []gds.DataShareDataset `json:"datasets"`
}

type Handlers struct {
	mu     sync.Mutex
	data   *Data
	nextID int64
	log    zerolog.Logger
}

func New(data *Data, log zerolog.Logger) *Handlers {
	return &Handlers{data: data, nextID: 1000, log: log}
}

func (h *Handlers) Log(r *http.Request) {
	body, _ := httputil.DumpRequest(r, true)
	h.log.Info().Msgf("Request received %s %s %s", r.Method, r.URL, string(body))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gds.Error{StatusCode: 1, MsgDesc: msg})
}

func idParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (h *Handlers) GetDataShare(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ds := range h.data.DataShares {
		if ds.ID == idParam(r) {
			writeJSON(w, ds)
			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no dataShare with id=%d", idParam(r)))
}

func (h *Handlers) UpdateDataShare(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	in := gds.DataShare{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, ds := range h.data.DataShares {
		if ds.ID == idParam(r) {
			if strings.TrimSpace(in.Name) == "" {
				writeError(w, http.StatusBadRequest, "name: must not be empty")
				return
			}

			in.ID = ds.ID
			in.Version = ds.Version + 1
			in.UpdateTime = time.Now().UnixMilli()
			h.data.DataShares[i] = in

			writeJSON(w, in)

			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no dataShare with id=%d", idParam(r)))
}

func (h *Handlers) DeleteDataShare(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	id := idParam(r)
	force := r.URL.Query().Get("forceDelete") == "true"

	for i, ds := range h.data.DataShares {
		if ds.ID != id {
			continue
		}

		if !force {
			for _, res := range h.data.Resources {
				if res.DataShareID == id {
					writeError(w, http.StatusBadRequest, "dataShare has shared resources, use forceDelete")
					return
				}
			}
		}

		h.data.DataShares = append(h.data.DataShares[:i], h.data.DataShares[i+1:]...)
		w.WriteHeader(http.StatusNoContent)

		return
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no dataShare with id=%d", id))
}

func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	name := chi.URLParam(r, "name")

	for _, svc := range h.data.Services {
		if svc.Name == name {
			writeJSON(w, svc)
			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no service with name=%s", name))
}

func (h *Handlers) GetServiceDef(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	name := chi.URLParam(r, "name")

	for _, def := range h.data.ServiceDefs {
		if def.Name == name {
			writeJSON(w, def)
			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no service definition with name=%s", name))
}

func page[T any](r *http.Request, items []T) gds.PList[T] {
	q := r.URL.Query()

	start, _ := strconv.Atoi(q.Get("startIndex"))
	size, err := strconv.Atoi(q.Get("pageSize"))
	if err != nil || size <= 0 {
		size = 25
	}

	out := gds.PList[T]{StartIndex: start, PageSize: size, TotalCount: len(items), List: []T{}}

	if start < len(items) {
		end := start + size
		if end > len(items) || end < 0 {
			end = len(items)
		}

		out.List = append(out.List, items[start:end]...)
	}

	out.ResultSize = len(out.List)

	return out
}

func (h *Handlers) SearchResources(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	id, _ := strconv.ParseInt(r.URL.Query().Get("dataShareId"), 10, 64)
	contains := strings.ToLower(r.URL.Query().Get("resourceContains"))

	var matched []gds.SharedResource

	for _, res := range h.data.Resources {
		if res.DataShareID != id {
			continue
		}

		if contains != "" && !resourceContains(res, contains) {
			continue
		}

		matched = append(matched, res)
	}

	writeJSON(w, page(r, matched))
}

func resourceContains(res gds.SharedResource, needle string) bool {
	for _, pr := range res.Resource {
		for _, v := range pr.Values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	}

	return false
}

func (h *Handlers) CreateResource(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	in := gds.SharedResource{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	in.ID = h.nextID
	in.Version = 1
	in.CreateTime = time.Now().UnixMilli()
	h.data.Resources = append(h.data.Resources, in)

	writeJSON(w, in)
}

func (h *Handlers) UpdateResource(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	in := gds.SharedResource{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, res := range h.data.Resources {
		if res.ID == idParam(r) {
			in.ID = res.ID
			in.Version = res.Version + 1
			in.UpdateTime = time.Now().UnixMilli()
			h.data.Resources[i] = in

			writeJSON(w, in)

			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no sharedResource with id=%d", idParam(r)))
}

func (h *Handlers) DeleteResource(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, res := range h.data.Resources {
		if res.ID == idParam(r) {
			h.data.Resources = append(h.data.Resources[:i], h.data.Resources[i+1:]...)
			w.WriteHeader(http.StatusNoContent)

			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no sharedResource with id=%d", idParam(r)))
}

func (h *Handlers) SearchDatasets(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	id, _ := strconv.ParseInt(q.Get("dataShareId"), 10, 64)
	status := q.Get("shareStatus")
	name := strings.ToLower(q.Get("datasetNamePartial"))

	var matched []gds.DataShareDataset

	for _, d := range h.data.Datasets {
		if d.DataShareID != id {
			continue
		}

		if status != "" && !strings.EqualFold(d.Status, status) {
			continue
		}

		if name != "" && !strings.Contains(strings.ToLower(d.DatasetName), name) {
			continue
		}

		matched = append(matched, d)
	}

	writeJSON(w, page(r, matched))
}

func (h *Handlers) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	in := gds.DataShareDataset{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, d := range h.data.Datasets {
		if d.ID != idParam(r) {
			continue
		}

		if d.Status == "REQUESTED" && in.Status == "ACTIVE" {
			writeError(w, http.StatusBadRequest, "request must be granted before it is activated")
			return
		}

		d.Status = in.Status
		d.Approver = in.Approver
		d.UpdateTime = time.Now().UnixMilli()
		h.data.Datasets[i] = d

		writeJSON(w, d)

		return
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no dataShareInDataset with id=%d", idParam(r)))
}

func (h *Handlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, d := range h.data.Datasets {
		if d.ID == idParam(r) {
			h.data.Datasets = append(h.data.Datasets[:i], h.data.Datasets[i+1:]...)
			w.WriteHeader(http.StatusNoContent)

			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("no dataShareInDataset with id=%d", idParam(r)))
}

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout)

	d, err := os.ReadFile(*data)
	if err != nil {
		log.Fatal().Err(err).Msg("opening file")
	}

	data := &Data{}
	err = json.Unmarshal(d, data)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing JSON")
	}

	h := New(data, log)

	r := chi.NewRouter()
	r.Route("/service", func(r chi.Router) {
		r.Get("/gds/datashare/dataset", h.SearchDatasets)
		r.Put("/gds/datashare/dataset/{id}", h.UpdateDataset)
		r.Delete("/gds/datashare/dataset/{id}", h.DeleteDataset)
		r.Get("/gds/datashare/{id}", h.GetDataShare)
		r.Put("/gds/datashare/{id}", h.UpdateDataShare)
		r.Delete("/gds/datashare/{id}", h.DeleteDataShare)
		r.Get("/gds/resource", h.SearchResources)
		r.Post("/gds/resource", h.CreateResource)
		r.Put("/gds/resource/{id}", h.UpdateResource)
		r.Delete("/gds/resource/{id}", h.DeleteResource)
		r.Get("/plugins/services/name/{name}", h.GetService)
		r.Get("/plugins/definitions/name/{name}", h.GetServiceDef)
	})

	log.Printf("Server starting on port %s...", *port)
	err = http.ListenAndServe(":"+*port, r)
	if err != nil {
		log.Fatal().Err(err).Msg("starting server")
	}
}
