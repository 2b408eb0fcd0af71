//nolint:dupl
package utils_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var levelStrings = map[utils.Level]string{
	utils.TRACE: "trace",
	utils.DEBUG: "debug",
	utils.INFO:  "info",
	utils.WARN:  "warn",
	utils.ERROR: "error",
}

func TestLogLevelString(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			assert.Equal(t, str, utils.NewLogLevel(level).String())
		})
	}
}

// Tests are similar for LogLevel and Network since they
// both implement the pflag.Value and encoding.TextUnmarshaller interfaces.
func TestLogLevelSet(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			l := utils.NewLogLevel(utils.ERROR)
			require.NoError(t, l.Set(str))
			assert.Equal(t, level, l.Level())
		})
		uppercase := strings.ToUpper(str)
		t.Run("level "+uppercase, func(t *testing.T) {
			l := new(utils.LogLevel)
			require.NoError(t, l.UnmarshalText([]byte(uppercase)))
			assert.Equal(t, level, l.Level())
		})
	}

	t.Run("unknown log level", func(t *testing.T) {
		l := new(utils.LogLevel)
		require.ErrorIs(t, l.Set("blah"), utils.ErrUnknownLogLevel)
	})
}

func TestLogLevelMarshal(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("json "+str, func(t *testing.T) {
			lb, err := json.Marshal(utils.NewLogLevel(level))
			require.NoError(t, err)
			assert.Equal(t, `"`+str+`"`, string(lb))
		})
		t.Run("yaml "+str, func(t *testing.T) {
			data, err := yaml.Marshal(*utils.NewLogLevel(level))
			require.NoError(t, err)
			assert.Contains(t, string(data), str)
		})
	}
	assert.Equal(t, "LogLevel", new(utils.LogLevel).Type())
}

func TestZapLogger(t *testing.T) {
	for level, str := range levelStrings {
		for _, colour := range []bool{true, false} {
			t.Run(fmt.Sprintf("level %s colour %v", str, colour), func(t *testing.T) {
				logger, err := utils.NewZapLogger(utils.NewLogLevel(level), colour)
				require.NoError(t, err)
				assert.Equal(t, level == utils.TRACE, logger.IsTraceEnabled())
			})
		}
	}

	t.Run("level changes propagate", func(t *testing.T) {
		level := utils.NewLogLevel(utils.INFO)
		logger, err := utils.NewZapLogger(level, false)
		require.NoError(t, err)
		assert.False(t, logger.IsTraceEnabled())
		require.NoError(t, level.Set("trace"))
		assert.True(t, logger.IsTraceEnabled())
	})
}

func TestHTTPLogSettings(t *testing.T) {
	logLevel := utils.NewLogLevel(utils.INFO)
	ctx := t.Context()

	serve := func(method, target string) *httptest.ResponseRecorder {
		req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		utils.HTTPLogSettings(rr, req, logLevel)
		return rr
	}

	rr := serve(http.MethodGet, "/log/level")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "info\n", rr.Body.String())

	rr = serve(http.MethodPut, "/log/level?level=debug")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Replaced log level with 'debug' successfully\n", rr.Body.String())
	assert.Equal(t, utils.DEBUG, logLevel.Level())

	rr = serve(http.MethodPut, "/log/level")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing level query parameter\n", rr.Body.String())

	rr = serve(http.MethodPut, "/log/level?level=invalid")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, fmt.Sprint(utils.ErrUnknownLogLevel)+"\n", rr.Body.String())

	rr = serve(http.MethodPost, "/log/level")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "Method not allowed\n", rr.Body.String())
}
