package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/twweather/taiwan-weather-mcp/internal/config"
	"github.com/twweather/taiwan-weather-mcp/internal/cwa"
	"github.com/twweather/taiwan-weather-mcp/internal/models"
	"github.com/twweather/taiwan-weather-mcp/internal/normalize"
	"github.com/twweather/taiwan-weather-mcp/internal/observability"
	"github.com/twweather/taiwan-weather-mcp/internal/validation"
)

// ServerName identifies the MCP server to connecting assistants.
const ServerName = "taiwan-weather"

// Version is the server version reported during the MCP handshake.
const Version = "1.0.0"

// Handler owns the four tool implementations. Each invocation issues one
// upstream call, normalizes the records, and answers with structured JSON; a
// failure becomes a {"error": ...} payload, never a protocol-level fault.
type Handler struct {
	client *cwa.Client
	cfg    *config.Config
	logger *zap.Logger
}

func New(client *cwa.Client, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{client: client, cfg: cfg, logger: logger}
}

// NewMCPServer builds the MCP server with all four tools registered.
func (h *Handler) NewMCPServer() *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(false),
	)
	h.Register(s)
	return s
}

// Register adds the tool definitions and handlers to an MCP server.
func (h *Handler) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_weather_forecast",
		mcp.WithDescription("Get weather forecast for a location in Taiwan. Supports the 36-hour city forecast and the 7-day township forecast."),
		mcp.WithString("location",
			mcp.Description("City or district name in Taiwan (e.g. 臺北市, 高雄市)"),
		),
		mcp.WithString("forecast_type",
			mcp.Description("Forecast horizon: \"36h\" for the 36-hour forecast or \"7d\" for the 7-day forecast"),
			mcp.Enum("36h", "7d"),
		),
		mcp.WithString("element_types",
			mcp.Description("Comma-separated weather element names to include (7-day forecast only). Defaults to 天氣預報綜合描述."),
		),
	), h.wrap("get_weather_forecast", h.handleForecast))

	s.AddTool(mcp.NewTool("get_weather_warnings",
		mcp.WithDescription("Get active weather warnings for Taiwan, optionally filtered by hazard type and location."),
		mcp.WithString("hazard_type",
			mcp.Description("Hazard type filter (e.g. 濃霧, 大雨, 豪雨)"),
		),
		mcp.WithString("location",
			mcp.Description("Location name filter (e.g. 臺北市, 高雄市)"),
		),
	), h.wrap("get_weather_warnings", h.handleWarnings))

	s.AddTool(mcp.NewTool("get_rainfall_data",
		mcp.WithDescription("Get rainfall observation data from stations across Taiwan."),
		mcp.WithString("location",
			mcp.Description("County or city name in Taiwan (e.g. 臺北市, 高雄市)"),
		),
	), h.wrap("get_rainfall_data", h.handleRainfall))

	s.AddTool(mcp.NewTool("get_weather_observation",
		mcp.WithDescription("Get live weather observations from stations across Taiwan."),
		mcp.WithString("location",
			mcp.Description("Location name filter matching county, district, or station name"),
		),
	), h.wrap("get_weather_observation", h.handleObservation))
}

// toolFunc produces the JSON-serializable payload for one tool call.
type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// wrap is the shared tool boundary: it records metrics, converts errors to
// {"error": ...} payloads, and catches panics from extraction code so no
// fault ever reaches the caller as a transport-level error.
func (h *Handler) wrap(tool string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("tool handler panic",
					zap.String("tool", tool),
					zap.Any("panic", r),
				)
				observability.RecordToolCall(tool, true)
				result = errorResult(fmt.Sprintf("internal error: %v", r))
				err = nil
			}
		}()

		payload, callErr := fn(ctx, req)
		if callErr != nil {
			observability.ErrorsTotal.WithLabelValues(string(cwa.CategorizeError(callErr))).Inc()
			observability.RecordToolCall(tool, true)
			h.logger.Warn("tool call failed",
				zap.String("tool", tool),
				zap.Error(callErr),
			)
			return errorResult(callErr.Error()), nil
		}

		observability.RecordToolCall(tool, false)
		data, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return errorResult(fmt.Sprintf("encode result: %v", marshalErr)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func errorResult(message string) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": message})
	return mcp.NewToolResultText(string(data))
}

func (h *Handler) handleForecast(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	location, err := validation.ValidateLocation(req.GetString("location", ""))
	if err != nil {
		return nil, err
	}
	forecastType := req.GetString("forecast_type", "36h")
	if forecastType != "36h" && forecastType != "7d" {
		return nil, fmt.Errorf("invalid forecast_type %q: must be 36h or 7d", forecastType)
	}

	display := validation.DisplayLocation(location)
	if location != "" {
		h.logger.Info("forecast lookup",
			zap.String("location", display),
			zap.String("forecast_type", forecastType),
		)
	}

	var elementTypes []string
	if raw := req.GetString("element_types", ""); raw != "" && forecastType == "7d" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				elementTypes = append(elementTypes, part)
			}
		}
	}

	var env *cwa.Envelope
	if forecastType == "7d" {
		env, err = h.client.Forecast7D(ctx, display)
	} else {
		env, err = h.client.Forecast36H(ctx, display)
	}
	if err != nil {
		return nil, err
	}

	results, err := normalize.Forecast(env.Records, normalize.ForecastRequest{
		Location:     display,
		ForecastType: forecastType,
		ElementTypes: elementTypes,
	})
	if err != nil {
		return nil, err
	}
	return normalize.Collapse(results, display)
}

func (h *Handler) handleWarnings(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	hazardType := strings.TrimSpace(req.GetString("hazard_type", ""))
	location, err := validation.ValidateLocation(req.GetString("location", ""))
	if err != nil {
		return nil, err
	}

	env, err := h.client.Warnings(ctx, hazardType, location)
	if err != nil {
		return nil, err
	}

	warnings := normalize.Warnings(env.Records, hazardType, location)
	return map[string][]models.WarningRecord{"warnings": warnings}, nil
}

func (h *Handler) handleRainfall(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	location, err := validation.ValidateLocation(req.GetString("location", ""))
	if err != nil {
		return nil, err
	}

	env, err := h.client.Rainfall(ctx, location)
	if err != nil {
		return nil, err
	}

	observations := normalize.Rainfall(env.Records, location, normalize.RainfallLimits{
		Filtered:   h.cfg.RainfallFilteredLimit,
		Unfiltered: h.cfg.RainfallUnfilteredLimit,
	})
	return map[string][]models.Observation{"observations": observations}, nil
}

func (h *Handler) handleObservation(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	location, err := validation.ValidateLocation(req.GetString("location", ""))
	if err != nil {
		return nil, err
	}

	env, err := h.client.Observation(ctx)
	if err != nil {
		return nil, err
	}

	observations := normalize.Observations(env.Records, location)
	return map[string][]models.Observation{"observations": observations}, nil
}
