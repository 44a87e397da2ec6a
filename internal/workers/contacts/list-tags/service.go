package listtags

import (
	"context"
	"sort"
	"strings"

	"crm-sync/internal/common/logger"
)

type Service struct {
	config *Config
	logger logger.Logger
	ghl    TagLister
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		ghl:    deps.GHL,
	}
}

// Execute lists the location tags sorted by name for the filter picker.
func (s *Service) Execute(ctx context.Context, _ *Input) (*Output, error) {
	tags, err := s.ghl.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})

	s.logger.Info("Tags listed", map[string]interface{}{"count": len(tags)})
	return &Output{
		Success: true,
		Tags:    tags,
		Total:   len(tags),
	}, nil
}
