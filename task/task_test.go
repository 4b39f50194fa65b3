package task_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/task"
	"github.com/tsinghua-fib-lab/autopilot-sim-oss/utils/config"
)

func shortConfig() config.Config {
	c := config.Default()
	c.Control.Step.Total = 400
	c.Telemetry.Log = false
	c.Telemetry.PublishLidar = true
	c.Sim.LidarNoise = 0
	return c
}

func TestRunCompletes(t *testing.T) {
	ctx := task.NewContext(shortConfig(), "")
	ctx.Run()

	assert.Equal(t, int32(400), ctx.Clock().InternalStep)
	assert.Equal(t, int32(400), ctx.Clock().Elapsed())
	// 每5步发布一次原始距离扫描
	out := ctx.TelemetryOutput()
	assert.Equal(t, int64(80), out.Written()+out.Dropped())
	assert.Greater(t, ctx.Simulator().Pose().X, -30.0)
	snap := ctx.VehicleManager().State().Snapshot()
	assert.Equal(t, int32(400), snap.Step)
	assert.Equal(t, 30.0, snap.Speed)
}

func TestStopBeforeRun(t *testing.T) {
	ctx := task.NewContext(shortConfig(), "")
	ctx.Stop()
	ctx.Run()
	assert.Equal(t, int32(0), ctx.Clock().InternalStep)
}

func TestHandlerRoutes(t *testing.T) {
	ctx := task.NewContext(shortConfig(), "")
	defer ctx.Close()
	ctx.Init()

	rec := httptest.NewRecorder()
	ctx.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	ctx.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/setSpeed/12.5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Speed set to 12.5", rec.Body.String())
	assert.Equal(t, 1, ctx.VehicleManager().State().Pending())
}
