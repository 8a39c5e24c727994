package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	helper "github.com/soerenfi/opendrive-traffic-simulation/pkg/http/router/routerhelper"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"go.uber.org/zap"
)

type mapAPI struct {
	mapService MapService
	log        *zap.Logger
	validate   *validator.Validate
	trans      ut.Translator
}

func New(mapService MapService, log *zap.Logger) *mapAPI {
	validate, trans := util.NewValidator()
	return &mapAPI{
		mapService: mapService,
		log:        log,
		validate:   validate,
		trans:      trans,
	}
}

func (api *mapAPI) Routes(group *helper.RouteGroup) {
	group.GET("/map", api.roadNetwork)
	group.GET("/roads/:id", api.road)
	group.GET("/lanes/nearby", api.nearbyLanes)
	group.GET("/objects", api.objects)
}

func (api *mapAPI) roadNetwork(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	resp := NewMapResponse(api.mapService.EncodedMap())
	if err := writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}

func (api *mapAPI) road(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := strconv.Atoi(p.ByName("id"))
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("road id must be an integer"))
		return
	}

	view, err := api.mapService.Road(id)
	if err != nil {
		statusResponse(api.log, w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewRoadDetailResponse(view)}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}

func (api *mapAPI) nearbyLanes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyLanesRequest
		err     error
	)

	query := r.URL.Query()

	request.X, err = strconv.ParseFloat(query.Get("x"), 64)
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("x is required and must be a valid float"))
		return
	}
	request.Y, err = strconv.ParseFloat(query.Get("y"), 64)
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("y is required and must be a valid float"))
		return
	}
	if radius := query.Get("radius"); radius != "" {
		request.Radius, err = strconv.ParseFloat(radius, 64)
		if err != nil {
			BadRequestResponse(api.log, w, r, errors.New("radius must be a valid float"))
			return
		}
	}

	if err := api.validate.Struct(request); err != nil {
		BadRequestResponse(api.log, w, r, fmt.Errorf("validation error: %v", util.TranslateError(err, api.trans)))
		return
	}

	hits := api.mapService.NearbyLanes(request.X, request.Y, request.Radius)
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewLaneHitsResponse(hits)}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}

func (api *mapAPI) objects(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewObjectsResponse(api.mapService.Objects())}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}
