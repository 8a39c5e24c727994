package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/golang/geo/r2"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/geometry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http/usecases"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/roadnetwork"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/telemetry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMapService struct {
	panicOnObjects bool
	lastRadius     float64
}

func (f *fakeMapService) EncodedMap() *usecases.EncodedMap {
	return &usecases.EncodedMap{
		Roads: []usecases.EncodedRoad{{
			ID:       1,
			Junction: roadnetwork.NoJunction,
			Polyline: "??_ibE",
			Lanes:    []usecases.EncodedLane{{ID: -1, Type: roadnetwork.Driving, Center: "a", Boundary: "b"}},
		}},
		Bounds: r2.RectFromPoints(r2.Point{X: -1, Y: 2}, r2.Point{X: 10, Y: 20}),
	}
}

func (f *fakeMapService) Road(id int) (*usecases.RoadView, error) {
	if id != 1 {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "road %d not found", id)
	}
	return &usecases.RoadView{
		ID:           1,
		Junction:     roadnetwork.NoJunction,
		Predecessors: []int{},
		Successors:   []int{2},
		Sections: []usecases.SectionView{{
			SOffset: 0,
			Lanes: []usecases.LaneView{{
				ID: -1, Type: roadnetwork.Driving, Width: 3.5,
				Predecessors: []usecases.LaneRef{},
				Successors:   []usecases.LaneRef{{RoadID: 2, SOffset: 0, LaneID: -1}},
			}},
		}},
	}, nil
}

func (f *fakeMapService) NearbyLanes(x, y, radius float64) []spatialindex.LaneHit {
	f.lastRadius = radius
	return []spatialindex.LaneHit{{RoadID: 1, LaneID: -1, Point: geometry.NewPoint(x, 0), Distance: y}}
}

func (f *fakeMapService) Objects() []simulator.ObjectState {
	if f.panicOnObjects {
		panic("objects unavailable")
	}
	return []simulator.ObjectState{{ID: 3, X: 1, Y: 2}}
}

func serve(t *testing.T, handler http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMapAPI(t *testing.T) {
	svc := &fakeMapService{}
	handler := NewAPI(zap.NewNop()).Handler(false, svc, telemetry.NewHub(zap.NewNop()))

	testCases := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "road network",
			target:   "/api/map",
			wantCode: http.StatusOK,
			wantBody: `{"data":{"roads":[{"id":1,"junction":-1,"polyline":"??_ibE",
				"lanes":[{"id":-1,"type":"driving","center":"a","boundary":"b"}]}],
				"bounds":{"min_x":-1,"min_y":2,"max_x":10,"max_y":20}}}`,
		},
		{
			name:     "road by id",
			target:   "/api/roads/1",
			wantCode: http.StatusOK,
			wantBody: `{"data":{"id":1,"junction":-1,"predecessors":[],"successors":[2],
				"sections":[{"s_offset":0,"lanes":[{"id":-1,"type":"driving","width":3.5,"predecessors":[],
				"successors":[{"road":2,"s_offset":0,"lane":-1}]}]}]}}`,
		},
		{
			name:     "unknown road",
			target:   "/api/roads/99",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":{"code":"Not Found","message":"road 99 not found"}}`,
		},
		{
			name:     "road id is not a number",
			target:   "/api/roads/abc",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":{"code":"Bad Request","message":"road id must be an integer"}}`,
		},
		{
			name:     "nearby lanes",
			target:   "/api/lanes/nearby?x=4&y=0.5&radius=2",
			wantCode: http.StatusOK,
			wantBody: `{"data":[{"road":1,"lane":-1,"x":4,"y":0,"distance":0.5}]}`,
		},
		{
			name:     "nearby lanes without x",
			target:   "/api/lanes/nearby?y=0.5",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":{"code":"Bad Request","message":"x is required and must be a valid float"}}`,
		},
		{
			name:     "objects",
			target:   "/api/objects",
			wantCode: http.StatusOK,
			wantBody: `{"data":[{"id":3,"x":1,"y":2,"z":0}]}`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, handler, http.MethodGet, tt.target, "", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestNearbyLanesValidation(t *testing.T) {
	svc := &fakeMapService{}
	handler := NewAPI(zap.NewNop()).Handler(false, svc, telemetry.NewHub(zap.NewNop()))

	for _, target := range []string{
		"/api/lanes/nearby?x=1&y=2&radius=-1",
		"/api/lanes/nearby?x=1&y=2&radius=5000",
		"/api/lanes/nearby?x=1&y=2&radius=wide",
	} {
		rec := serve(t, handler, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Error.Message, "adius")
	}

	rec := serve(t, handler, http.MethodGet, "/api/lanes/nearby?x=1&y=2", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, svc.lastRadius)
}

func TestMiddleware(t *testing.T) {
	handler := NewAPI(zap.NewNop()).Handler(false, &fakeMapService{panicOnObjects: true},
		telemetry.NewHub(zap.NewNop()))

	rec := serve(t, handler, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, handler, http.MethodGet, "/api/objects", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(t, handler, http.MethodPost, "/api/map", "text/plain", "hello")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = serve(t, handler, http.MethodGet, "/api/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	viper.Set("API_RATE_LIMIT", 0.001)
	viper.Set("API_RATE_BURST", 1)
	t.Cleanup(func() {
		viper.Set("API_RATE_LIMIT", 100.0)
		viper.Set("API_RATE_BURST", 200)
	})

	handler := NewAPI(zap.NewNop()).Handler(true, &fakeMapService{}, telemetry.NewHub(zap.NewNop()))
	assert.Equal(t, http.StatusOK, serve(t, handler, http.MethodGet, "/api/objects", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(t, handler, http.MethodGet, "/api/objects", "", "").Code)
}

func TestTelemetryWebsocket(t *testing.T) {
	hub := telemetry.NewHub(zap.NewNop())
	srv := httptest.NewServer(NewAPI(zap.NewNop()).Handler(false, &fakeMapService{}, hub))
	defer srv.Close()

	conn, _, _, err := ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
}
