package runapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/gridbot/config"
	"github.com/beka-birhanu/gridbot/render"
	"github.com/beka-birhanu/gridbot/service"
	"github.com/beka-birhanu/gridbot/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunController starts, inspects and stops simulation runs.
type RunController struct {
	runs i.RunManager
}

// NewRunController initializes a RunController.
func NewRunController(runs i.RunManager) *RunController {
	return &RunController{runs: runs}
}

// RegisterPublic registers public routes.
func (rc *RunController) RegisterPublic(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.GET("", rc.list)
		runs.GET("/:ID", rc.info)
		runs.GET("/:ID/frame", rc.textFrame)
		runs.GET("/:ID/frame.png", rc.pngFrame)
	}
}

// RegisterProtected registers protected routes.
func (rc *RunController) RegisterProtected(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.POST("", rc.start)
		runs.DELETE("/:ID", rc.stop)
	}
}

// start handles run creation. An empty body runs the default scenario;
// fields left out of a JSON body keep their default values.
func (rc *RunController) start(ctx *gin.Context) {
	scenario := config.DefaultScenario()
	if err := ctx.ShouldBindJSON(&scenario); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := rc.runs.Start(scenario)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, &StartResponse{ID: id})
}

// list returns recent runs, newest first. Entries marked local are served
// by this server; the others 404 on the per-run routes.
func (rc *RunController) list(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	runs, err := rc.runs.List(ctx, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while listing runs"})
		return
	}

	ctx.JSON(http.StatusOK, &ListResponse{Runs: runs})
}

// info reports a run's state.
func (rc *RunController) info(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	info, err := rc.runs.Info(id)
	if err != nil {
		abortWithRunError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// textFrame returns the latest frame as text, one row per line.
func (rc *RunController) textFrame(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	frame, err := rc.runs.Frame(id)
	if err != nil {
		abortWithRunError(ctx, err)
		return
	}

	ctx.String(http.StatusOK, frame.Text())
}

// pngFrame returns the latest frame drawn as a PNG.
func (rc *RunController) pngFrame(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	frame, err := rc.runs.Frame(id)
	if err != nil {
		abortWithRunError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, frame); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while drawing frame"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", buf.Bytes())
}

// stop cancels a run and returns its final state.
func (rc *RunController) stop(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	if err := rc.runs.Stop(id); err != nil {
		abortWithRunError(ctx, err)
		return
	}

	info, err := rc.runs.Info(id)
	if err != nil {
		abortWithRunError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, info)
}

func runID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return uuid.Nil, false
	}
	return id, true
}

func abortWithRunError(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrRunNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no such run"})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
