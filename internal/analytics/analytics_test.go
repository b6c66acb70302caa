package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/catalog"
	"library-backend/internal/platform/apierr"
)

type repoMock struct {
	genres func(ctx context.Context) ([]GenreCount, error)
	top    func(ctx context.Context, limit uint) ([]BorrowCount, error)
	status func(ctx context.Context) ([]StatusCount, error)
}

func (m *repoMock) GenreDistribution(ctx context.Context) ([]GenreCount, error) { return m.genres(ctx) }
func (m *repoMock) TopBorrowedBooks(ctx context.Context, limit uint) ([]BorrowCount, error) {
	return m.top(ctx, limit)
}
func (m *repoMock) StatusCounts(ctx context.Context) ([]StatusCount, error) { return m.status(ctx) }

func TestQueries(t *testing.T) {
	q, _, err := genreDistributionQuery().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, q, "COUNT(`b`.`book_id`) AS `book_count`")
	assert.Contains(t, q, "GROUP BY `g`.`genre_name`")
	assert.Contains(t, q, "ORDER BY `book_count` DESC")

	q, args, err := topBorrowedQuery(10).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, q, "FROM `receipts` AS `rc`")
	assert.Contains(t, q, "ORDER BY `times_borrowed` DESC")
	assert.Contains(t, q, "LIMIT ?")
	assert.Len(t, args, 1)

	q, _, err = statusCountsQuery().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, q, "GROUP BY `availability_status`")
}

func TestTopBorrowedBooks_Limit(t *testing.T) {
	var got uint
	svc := NewService(&repoMock{top: func(_ context.Context, limit uint) ([]BorrowCount, error) {
		got = limit
		return []BorrowCount{}, nil
	}})
	ctx := context.Background()

	_, err := svc.TopBorrowedBooks(ctx, DefaultTopBorrowedLimit)
	require.NoError(t, err)
	assert.Equal(t, uint(10), got)

	for _, bad := range []int{0, -1, 101} {
		_, err := svc.TopBorrowedBooks(ctx, bad)
		assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument), bad)
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotLimit uint
	repo := &repoMock{
		genres: func(context.Context) ([]GenreCount, error) {
			return []GenreCount{{GenreName: "Fiction", BookCount: 2}}, nil
		},
		top: func(_ context.Context, limit uint) ([]BorrowCount, error) {
			gotLimit = limit
			return []BorrowCount{{BookID: 2, Title: "A Brief History of Time", TimesBorrowed: 2}}, nil
		},
		status: func(context.Context) ([]StatusCount, error) {
			return nil, errors.New("connection reset")
		},
	}
	r := gin.New()
	RegisterRoutes(r, NewService(repo))

	cases := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/analytics/genres", http.StatusOK, `[{"genreName":"Fiction","bookCount":2}]`},
		{"/analytics/top-borrowed", http.StatusOK, `[{"bookId":2,"title":"A Brief History of Time","timesBorrowed":2}]`},
		{"/analytics/top-borrowed?limit=x", http.StatusBadRequest, ""},
		{"/analytics/top-borrowed?limit=500", http.StatusBadRequest, ""},
		{"/analytics/status-count", http.StatusInternalServerError, `{"error":{"code":"INTERNAL","message":"internal server error"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, w.Body.String())
			}
		})
	}
	assert.Equal(t, uint(DefaultTopBorrowedLimit), gotLimit)
}

func TestStatusCountJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &repoMock{status: func(context.Context) ([]StatusCount, error) {
		return []StatusCount{{AvailabilityStatus: catalog.StatusReserved, Total: 1}}, nil
	}}
	r := gin.New()
	RegisterRoutes(r, NewService(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/status-count", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"availabilityStatus":"Reserved","total":1}]`, w.Body.String())
}
