package intelligence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/llm"
)

// StudyService produces study guides and short term definitions.
type StudyService interface {
	// GenerateGuide returns the markdown study guide for topic.
	GenerateGuide(ctx context.Context, topic string) (string, error)

	// DefineTerm returns a few-sentence markdown definition of term.
	DefineTerm(ctx context.Context, term string) (string, error)
}

type studyService struct {
	client llm.LLMClient
	logger *zap.Logger
}

// NewStudyService creates a StudyService backed by an LLM client. Failures
// are reported as llm.ErrNotConfigured or llm.ErrBackend; the underlying
// cause goes to logger only.
func NewStudyService(client llm.LLMClient, logger *zap.Logger) StudyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &studyService{client: client, logger: logger}
}

func (s *studyService) GenerateGuide(ctx context.Context, topic string) (string, error) {
	return s.call(ctx, llm.GenerateRequest{
		Task:         llm.TaskGuide,
		SystemPrompt: guideSystemPrompt,
		UserPrompt:   guidePrompt(topic),
	}, zap.String("topic", topic))
}

func (s *studyService) DefineTerm(ctx context.Context, term string) (string, error) {
	return s.call(ctx, llm.GenerateRequest{
		Task:         llm.TaskDefine,
		SystemPrompt: defineSystemPrompt,
		UserPrompt:   definePrompt(term),
	}, zap.String("term", term))
}

func (s *studyService) call(ctx context.Context, req llm.GenerateRequest, subject zap.Field) (string, error) {
	requestID := uuid.NewString()
	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("task", string(req.Task)),
		subject,
	)

	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			log.Warn("backend credential unavailable", zap.Error(err))
			return "", llm.ErrNotConfigured
		}
		log.Error("backend call failed", zap.Error(err))
		return "", llm.ErrBackend
	}

	log.Debug("backend call succeeded",
		zap.String("model", resp.Model),
		zap.Int64("latency_ms", resp.LatencyMs),
		zap.Int("chars", len(resp.Text)),
	)
	return resp.Text, nil
}
