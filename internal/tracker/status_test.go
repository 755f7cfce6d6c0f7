package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusClient returns a client whose every request gets status back.
func statusClient(t *testing.T, status int) *Client {
	t.Helper()
	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentJSON)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"TF400813: not authorized"}`))
		}))
	}()
	t.Cleanup(srv.Close)

	c, err := New(domain.Config{OrgURL: srv.URL + "/org", Project: "Proj"}, StaticPAT("pat"),
		Options{HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestUnauthorizedRepliesAreValidationErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := statusClient(t, status)
			ctx := context.Background()

			_, err := c.GetWorkItem(ctx, 5)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err), "get: %v", err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), "not authorized")

			err = c.PatchWorkItem(ctx, 5, domain.FieldChanges{domain.FieldTitle: "B"})
			assert.Equal(t, domain.KindValidation, domain.KindOf(err), "patch: %v", err)

			_, err = c.CreateWorkItem(ctx, NewItem{Type: domain.TypeTask, Title: "x"})
			assert.Equal(t, domain.KindValidation, domain.KindOf(err), "create: %v", err)

			err = c.deleteWorkItem(ctx, 5)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err), "delete: %v", err)

			res := c.DeleteWorkItems(ctx, []int{5, 6})
			assert.Equal(t, map[int]bool{5: false, 6: false}, res.Outcomes)
		})
	}
}

func TestOtherStatusesKeepCallerKind(t *testing.T) {
	c := statusClient(t, http.StatusBadRequest)
	ctx := context.Background()

	err := c.PatchWorkItem(ctx, 5, domain.FieldChanges{domain.FieldTitle: "B"})
	assert.Equal(t, domain.KindUpdate, domain.KindOf(err))

	_, err = c.CreateWorkItem(ctx, NewItem{Type: domain.TypeTask, Title: "x"})
	assert.Equal(t, domain.KindCreate, domain.KindOf(err))
}
