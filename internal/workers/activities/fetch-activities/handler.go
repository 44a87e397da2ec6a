package fetchactivities

import (
	"context"
	"fmt"
	"time"

	"crm-sync/internal/common/closecrm"
	"crm-sync/internal/common/config"
	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/metrics"
	"crm-sync/internal/common/validation"
)

const ActionName = "fetchActivities"

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Close        ActivitySource
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	actionConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := actionConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for fetch-activities: %w", err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	client := opts.Close
	if client == nil {
		if opts.AppConfig == nil {
			return nil, fmt.Errorf("fetch-activities requires a Close client or app config")
		}
		client = closecrm.NewClient(closecrm.ConfigFromApp(opts.AppConfig.Integrations.Close), loggerInstance)
	}

	handler := &Handler{
		config: actionConfig,
		logger: loggerInstance,
	}
	handler.service = NewService(ServiceDependencies{
		Logger: loggerInstance,
		Close:  client,
	}, handler.config)

	return handler, nil
}

func (h *Handler) Handle(ctx context.Context, variables map[string]interface{}) (interface{}, error) {
	startTime := time.Now()
	metrics.ActionsActive.WithLabelValues(ActionName).Inc()
	defer metrics.ActionsActive.WithLabelValues(ActionName).Dec()

	if !h.config.Enabled {
		return nil, errors.NewActionDisabledError(ActionName)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	input, err := h.parseInput(variables)
	if err != nil {
		return nil, err
	}

	output, err := h.service.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Activity fetch request handled", map[string]interface{}{
		"action":   ActionName,
		"duration": time.Since(startTime).String(),
	})
	return output, nil
}

func (h *Handler) parseInput(variables map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationError(
			"Input validation failed",
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()),
		)
	}

	var input Input
	if err := validation.Decode(variables, &input); err != nil {
		return nil, errors.NewValidationError("Input validation failed", err.Error())
	}
	return &input, nil
}

func (h *Handler) GetActionName() string {
	return ActionName
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		actionCfg := config.GetActionConfig(appConfig, ActionName)
		cfg.Enabled = actionCfg.Enabled
		if actionCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(actionCfg.Timeout)
		}
		cfg.LookupInterval = config.GetDuration(appConfig.Sync.LookupIntervalMs)
		if appConfig.Integrations.Close.PageSize > 0 {
			cfg.PageSize = appConfig.Integrations.Close.PageSize
		}
		if appConfig.Integrations.Close.MaxActivities > 0 {
			cfg.MaxActivities = appConfig.Integrations.Close.MaxActivities
		}
	}
	return cfg
}
