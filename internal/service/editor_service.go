package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/generation"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/platform/metrics"
)

// EditorService runs the card generator over raw editor text. Apart from
// OpenList it holds no state and touches no store.
type EditorService interface {
	// Preview generates the cards for two raw blocks.
	Preview(ctx context.Context, rawFront, rawBack string, align bool) generation.Result
	// RemoveCard deletes the lines behind card index, renumbers both blocks
	// and regenerates the cards. An index with no card returns
	// generation.ErrIndexOutOfRange and the blocks unchanged.
	RemoveCard(ctx context.Context, rawFront, rawBack string, index int, align bool) (EditorState, error)
	// Renumber rewrites a raw block with running "N. " prefixes.
	Renumber(ctx context.Context, raw string) string
	// OpenList loads a stored list into editor form.
	OpenList(ctx context.Context, userID, listID uuid.UUID) (*OpenedList, error)
}

// EditorState is the content of both editor boxes and the cards they produce.
type EditorState struct {
	Front  string
	Back   string
	Result generation.Result
}

// OpenedList is a stored list rendered as numbered raw blocks.
type OpenedList struct {
	ID       uuid.UUID
	FolderID uuid.UUID
	Name     string
	EditorState
}

type editorService struct {
	lists   ListService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ EditorService = (*editorService)(nil)

// NewEditorService creates an EditorService. m may be nil.
func NewEditorService(lists ListService, m *metrics.Metrics, log *slog.Logger) (EditorService, error) {
	if lists == nil {
		return nil, errors.New("editor service: missing list service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &editorService{
		lists:   lists,
		metrics: m,
		logger:  log.With(slog.String("component", "editor_service")),
	}, nil
}

// Preview implements EditorService.
func (s *editorService) Preview(ctx context.Context, rawFront, rawBack string, align bool) generation.Result {
	res := generation.GenerateCards(rawFront, rawBack, align)
	s.observe(ctx, res, align)
	return res
}

// RemoveCard implements EditorService.
func (s *editorService) RemoveCard(
	ctx context.Context,
	rawFront, rawBack string,
	index int,
	align bool,
) (EditorState, error) {
	if _, _, err := generation.LocateCard(rawFront, rawBack, index, align); err != nil {
		return EditorState{
			Front:  rawFront,
			Back:   rawBack,
			Result: generation.GenerateCards(rawFront, rawBack, align),
		}, err
	}

	front, back := generation.RemoveCardAt(rawFront, rawBack, index, align)
	state := EditorState{
		Front: generation.Renumber(front),
		Back:  generation.Renumber(back),
	}
	state.Result = s.Preview(ctx, state.Front, state.Back, align)

	if s.metrics != nil {
		s.metrics.CardsRemoved.WithLabelValues(metrics.Mode(align)).Inc()
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("card removed",
		slog.Int("index", index),
		slog.Bool("align", align),
		slog.Int("cards_left", len(state.Result.Cards)))
	return state, nil
}

// Renumber implements EditorService.
func (s *editorService) Renumber(_ context.Context, raw string) string {
	return generation.Renumber(raw)
}

// OpenList implements EditorService.
func (s *editorService) OpenList(ctx context.Context, userID, listID uuid.UUID) (*OpenedList, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	opened := &OpenedList{
		ID:       list.ID,
		FolderID: list.FolderID,
		Name:     list.Name,
		EditorState: EditorState{
			Front: generation.Number(list.Front),
			Back:  generation.Number(list.Back),
		},
	}
	opened.Result = generation.GenerateCards(opened.Front, opened.Back, false)
	return opened, nil
}

func (s *editorService) observe(ctx context.Context, res generation.Result, align bool) {
	if s.metrics != nil {
		s.metrics.CardsGenerated.WithLabelValues(metrics.Mode(align)).Add(float64(len(res.Cards)))
		if !res.Diagnostic.IsZero() {
			s.metrics.Diagnostics.WithLabelValues(string(res.Diagnostic.Kind)).Inc()
		}
	}
	if !res.Diagnostic.IsZero() {
		logger.FromContextOrDefault(ctx, s.logger).Debug("generation diagnostic",
			slog.String("kind", string(res.Diagnostic.Kind)),
			slog.Int("front", res.Diagnostic.FrontCount),
			slog.Int("back", res.Diagnostic.BackCount))
	}
}
