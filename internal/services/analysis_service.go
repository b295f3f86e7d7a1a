package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-vision-backend/internal/imaging"
	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/store"
)

// ModelGateway wraps the remote vision-language model. Query always
// returns a usable answer; remote failures are absorbed into a degraded
// fallback string inside the gateway, never surfaced as errors here.
type ModelGateway interface {
	Query(ctx context.Context, img *imaging.DecodedImage, userMessage string) string
}

// imageUploadedContent is the ledger content recorded for image events;
// the raw bytes themselves are never retained.
const imageUploadedContent = "User uploaded image"

// AnalysisService orchestrates a single image analysis: decode and
// validate the payload, query the model, record the exchange.
type AnalysisService struct {
	store   store.Store
	gateway ModelGateway
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(store store.Store, gateway ModelGateway) *AnalysisService {
	return &AnalysisService{
		store:   store,
		gateway: gateway,
	}
}

// Analyze runs the full analysis pipeline for one request.
//
// A payload that fails to decode rejects the request with
// imaging.ErrInvalidImage and writes nothing to the ledger. The model
// call cannot fail (see ModelGateway), so every request that survives
// decoding produces a response and exactly one recorded exchange.
//
// The optional text message, the image event and the response are
// appended as one atomic batch after the model call returns. Batching
// keeps a concurrent caller on the same conversation from interleaving
// its own exchange into ours, and keeps the slow network call outside
// any ledger lock.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	// Decode before touching the ledger: a rejected payload must leave
	// no trace, not even a freshly minted conversation.
	decoded, err := imaging.Decode(req.Image)
	if err != nil {
		return nil, err
	}

	userID, err := s.resolveUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	responseText := s.gateway.Query(ctx, decoded, req.UserMessage)

	batch := make([]store.AppendMessageParams, 0, 3)
	if strings.TrimSpace(req.UserMessage) != "" {
		batch = append(batch, store.AppendMessageParams{
			Kind:    models.MessageKindText,
			Content: req.UserMessage,
		})
	}
	batch = append(batch,
		store.AppendMessageParams{
			Kind:            models.MessageKindImage,
			Content:         imageUploadedContent,
			ImageDescriptor: &decoded.Descriptor,
		},
		store.AppendMessageParams{
			Kind:    models.MessageKindResponse,
			Content: responseText,
		},
	)

	recorded, err := s.store.AppendMessages(ctx, userID, batch...)
	if err != nil {
		return nil, fmt.Errorf("failed to record analysis exchange: %w", err)
	}

	ids := make([]string, len(recorded))
	for i, msg := range recorded {
		ids[i] = msg.MessageID
	}

	return &models.AnalysisResult{
		Response:           responseText,
		UserID:             userID,
		Image:              decoded.Descriptor,
		RecordedMessageIDs: ids,
	}, nil
}

// resolveUserID keeps the provided ID when it names an existing
// conversation; otherwise it mints a fresh one and creates the
// conversation for it.
func (s *AnalysisService) resolveUserID(ctx context.Context, provided string) (string, error) {
	if provided != "" {
		exists, err := s.store.ConversationExists(ctx, provided)
		if err != nil {
			return "", err
		}
		if exists {
			return provided, nil
		}
	}

	userID := uuid.New().String()
	if err := s.store.CreateConversation(ctx, userID); err != nil {
		return "", err
	}
	return userID, nil
}
