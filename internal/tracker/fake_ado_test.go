package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/stretchr/testify/require"
)

const (
	testOrg     = "/org"
	testProject = "Proj"
	witPrefix   = testOrg + "/" + testProject + "/_apis/wit"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       map[string][]string
	ContentType string
	Auth        string
	Body        []byte
}

type fakeItem struct {
	ID        int
	Type      string
	Fields    map[string]any
	ParentURL string
}

// fakeADO is an in-memory stand-in for the work item REST API.
type fakeADO struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	nextID      int
	items       map[int]*fakeItem
	failTitles  map[string]int
	failPatch   map[int]int
	failDelete  map[int]int
	requests    []recordedRequest
	deleteDelay time.Duration

	inflight    atomic.Int32
	maxInflight atomic.Int32
}

func newFakeADO(t *testing.T) *fakeADO {
	t.Helper()
	f := &fakeADO{
		t:          t,
		nextID:     1000,
		items:      map[int]*fakeItem{},
		failTitles: map[string]int{},
		failPatch:  map[int]int{},
		failDelete: map[int]int{},
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	}()
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeADO) config() domain.Config {
	return domain.Config{
		OrgURL:        f.srv.URL + testOrg,
		Project:       testProject,
		AssignedTo:    "dev@example.com",
		AreaPath:      "Proj\\Team",
		IterationPath: "Proj\\Sprint 1",
	}
}

func (f *fakeADO) client(opts Options) *Client {
	f.t.Helper()
	opts.HTTPClient = f.srv.Client()
	c, err := New(f.config(), StaticPAT("pat"), opts)
	require.NoError(f.t, err)
	return c
}

func (f *fakeADO) apiURL(id int) string {
	return fmt.Sprintf("%s%s/_apis/wit/workItems/%d", f.srv.URL, testOrg, id)
}

func (f *fakeADO) seed(typ, title string, fields map[string]any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	all := map[string]any{refTitle: title, refType: typ, refState: "New"}
	for k, v := range fields {
		all[k] = v
	}
	f.items[f.nextID] = &fakeItem{ID: f.nextID, Type: typ, Fields: all}
	return f.nextID
}

func (f *fakeADO) item(id int) *fakeItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}

func (f *fakeADO) recorded(method string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// itemsOfType returns ids of stored items of typ in creation order.
func (f *fakeADO) itemsOfType(typ string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int
	for id, it := range f.items {
		if it.Type == typ {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (f *fakeADO) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})
	f.mu.Unlock()

	if r.URL.Query().Get("api-version") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "api-version is required"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, witPrefix)
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(path, "/workitems/$"):
		f.create(w, strings.TrimPrefix(path, "/workitems/$"), body)
	case r.Method == http.MethodPost && path == "/wiql":
		f.wiql(w)
	case r.Method == http.MethodGet && path == "/workitems":
		f.batch(w, r)
	case strings.HasPrefix(path, "/workitems/"):
		id, err := strconv.Atoi(strings.TrimPrefix(path, "/workitems/"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			f.get(w, id)
		case http.MethodPatch:
			f.patch(w, id, body)
		case http.MethodDelete:
			f.delete(w, id)
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route " + r.URL.Path})
	}
}

type rawOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func (f *fakeADO) create(w http.ResponseWriter, typ string, body []byte) {
	var ops []rawOp
	if err := json.Unmarshal(body, &ops); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	fields := map[string]any{refType: typ, refState: "New"}
	parentURL := ""
	for _, op := range ops {
		if op.Path == "/relations/-" {
			var rel relation
			_ = json.Unmarshal(op.Value, &rel)
			parentURL = rel.URL
			continue
		}
		var v any
		_ = json.Unmarshal(op.Value, &v)
		fields[strings.TrimPrefix(op.Path, "/fields/")] = v
	}

	title, _ := fields[refTitle].(string)
	f.mu.Lock()
	if status, ok := f.failTitles[title]; ok {
		f.mu.Unlock()
		writeJSON(w, status, map[string]string{"message": "rejected " + title})
		return
	}
	f.nextID++
	id := f.nextID
	f.items[id] = &fakeItem{ID: id, Type: typ, Fields: fields, ParentURL: parentURL}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "url": f.apiURL(id), "fields": fields})
}

func (f *fakeADO) get(w http.ResponseWriter, id int) {
	it := f.item(id)
	if it == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("TF401232: Work item %d does not exist", id)})
		return
	}
	writeJSON(w, http.StatusOK, f.render(it))
}

func (f *fakeADO) render(it *fakeItem) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := map[string]any{}
	for k, v := range it.Fields {
		fields[k] = v
	}
	if name, ok := fields[refAssignedTo].(string); ok && name != "" {
		fields[refAssignedTo] = map[string]string{"displayName": "Dev", "uniqueName": name}
	}
	return map[string]any{"id": it.ID, "url": f.apiURL(it.ID), "fields": fields}
}

func (f *fakeADO) patch(w http.ResponseWriter, id int, body []byte) {
	f.mu.Lock()
	status, failing := f.failPatch[id]
	it := f.items[id]
	f.mu.Unlock()

	if it == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "missing"})
		return
	}
	if failing {
		writeJSON(w, status, map[string]string{"message": "VS403691: illegal state transition"})
		return
	}

	var ops []rawOp
	_ = json.Unmarshal(body, &ops)
	f.mu.Lock()
	for _, op := range ops {
		var v any
		_ = json.Unmarshal(op.Value, &v)
		it.Fields[strings.TrimPrefix(op.Path, "/fields/")] = v
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (f *fakeADO) delete(w http.ResponseWriter, id int) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.deleteDelay > 0 {
		time.Sleep(f.deleteDelay)
	}

	f.mu.Lock()
	status, failing := f.failDelete[id]
	_, exists := f.items[id]
	if exists && !failing {
		delete(f.items, id)
	}
	f.mu.Unlock()

	switch {
	case failing:
		writeJSON(w, status, map[string]string{"message": "cannot delete"})
	case !exists:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "missing"})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeADO) wiql(w http.ResponseWriter) {
	var refs []map[string]any
	for _, id := range f.itemsOfType("Feature") {
		it := f.item(id)
		tags, _ := it.Fields[refTags].(string)
		if strings.Contains(tags, "wisync") {
			refs = append(refs, map[string]any{"id": id, "url": f.apiURL(id)})
		}
	}
	// newest first
	sort.Slice(refs, func(i, j int) bool { return refs[i]["id"].(int) > refs[j]["id"].(int) })
	writeJSON(w, http.StatusOK, map[string]any{"workItems": refs})
}

func (f *fakeADO) batch(w http.ResponseWriter, r *http.Request) {
	var value []map[string]any
	for _, s := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, _ := strconv.Atoi(s)
		if it := f.item(id); it != nil {
			value = append(value, f.render(it))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(value), "value": value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
