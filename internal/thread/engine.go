// Package thread holds the comment thread of the route being viewed and keeps
// it in sync with the RouteHub API. Every successful mutation is followed by a
// full reload; the engine never splices nodes into the tree locally.
package thread

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
	"routehub-client/internal/metrics"
	"routehub-client/internal/notify"
	"routehub-client/internal/response"
	"routehub-client/internal/session"
)

// MinContentLength is the shortest comment accepted, counted in characters after trimming
const MinContentLength = 3

// Mutation operation labels
const (
	OpComment = "comment"
	OpReply   = "reply"
	OpDelete  = "delete"
)

// CommentStore is the remote comment API the engine talks to
type CommentStore interface {
	ListByRoute(ctx context.Context, routeID string) ([]dto.CommentDetailDto, error)
	Create(ctx context.Context, req dto.CreateCommentRequest) (string, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot is a read-only view of the engine state.
// Roots is shared with the engine: the tree is replaced on every load, never
// changed in place, but callers must not modify it.
type Snapshot struct {
	RouteID     string
	Roots       []*domain.CommentNode
	ReplyTarget string
	Loading     bool
	// Version is the sequence number of the load that produced Roots
	Version uint64
}

// Engine owns the comment tree of one route at a time
type Engine struct {
	store   CommentStore
	session session.Provider
	sink    notify.Sink
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu          sync.Mutex
	routeID     string
	roots       []*domain.CommentNode
	index       map[string]*domain.CommentNode
	replyTarget string
	inFlight    int
	issuedSeq   uint64
	appliedSeq  uint64
	observers   map[int]func(Snapshot)
	nextObsID   int
}

// NewEngine creates a new Engine. sink, logger and m may be nil.
func NewEngine(store CommentStore, provider session.Provider, sink notify.Sink, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if sink == nil {
		sink = notify.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:     store,
		session:   provider,
		sink:      sink,
		logger:    logger,
		metrics:   m,
		observers: make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn to receive a Snapshot after every state change.
// The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	id := e.nextObsID
	e.nextObsID++
	e.observers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

// Snapshot returns the current state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		RouteID:     e.routeID,
		Roots:       e.roots,
		ReplyTarget: e.replyTarget,
		Loading:     e.inFlight > 0,
		Version:     e.appliedSeq,
	}
}

// unlockAndPublish releases the lock and then notifies observers
func (e *Engine) unlockAndPublish() {
	snap := e.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	e.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// LoadThread fetches the full thread of routeID and replaces the tree.
// Selecting a different route drops the previous tree and reply target first.
// On failure the tree keeps its previous value and the failure is reported.
func (e *Engine) LoadThread(ctx context.Context, routeID string) error {
	if strings.TrimSpace(routeID) == "" {
		return e.reject(response.NewValidationError("No route selected"), "no_route")
	}

	e.mu.Lock()
	if routeID != e.routeID {
		e.routeID = routeID
		e.roots = nil
		e.index = nil
		e.replyTarget = ""
	}
	e.mu.Unlock()

	return e.load(ctx, routeID)
}

// load fetches routeID's thread and applies it only if it is still the
// selected route and no newer load has been applied.
func (e *Engine) load(ctx context.Context, routeID string) error {
	e.mu.Lock()
	e.issuedSeq++
	seq := e.issuedSeq
	e.inFlight++
	e.unlockAndPublish()

	items, err := e.store.ListByRoute(ctx, routeID)

	e.mu.Lock()
	e.inFlight--

	stale := seq <= e.appliedSeq || routeID != e.routeID

	if err != nil && stale {
		e.unlockAndPublish()
		e.metrics.RecordThreadLoad(metrics.ResultStale)
		e.metrics.IncrementStaleLoadsDiscarded()
		e.logger.Debug("Discarding failed stale thread load",
			zap.String("route_id", routeID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return nil
	}

	if err != nil {
		e.unlockAndPublish()
		e.metrics.RecordThreadLoad(metrics.ResultFailure)
		e.logger.Warn("Failed to load comment thread",
			zap.String("route_id", routeID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		e.report(err)
		return err
	}

	if stale {
		applied := e.appliedSeq
		current := e.routeID
		e.unlockAndPublish()
		e.metrics.RecordThreadLoad(metrics.ResultStale)
		e.metrics.IncrementStaleLoadsDiscarded()
		e.logger.Debug("Discarding stale thread load",
			zap.String("route_id", routeID),
			zap.String("current_route_id", current),
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", applied),
		)
		return nil
	}

	roots := BuildTree(routeID, items)
	idx := index(roots)
	e.roots = roots
	e.index = idx
	e.appliedSeq = seq
	if e.replyTarget != "" && idx[e.replyTarget] == nil {
		e.logger.Debug("Reply target no longer in thread", zap.String("comment_id", e.replyTarget))
		e.replyTarget = ""
	}
	e.unlockAndPublish()

	e.metrics.RecordThreadLoad(metrics.ResultSuccess)
	e.metrics.SetThreadNodes(len(idx))
	e.logger.Debug("Comment thread loaded",
		zap.String("route_id", routeID),
		zap.Int("top_level", len(roots)),
		zap.Int("nodes", len(idx)),
		zap.Uint64("seq", seq),
	)
	return nil
}

// reload refreshes the thread after a successful mutation on routeID, unless
// the user has moved to another route in the meantime
func (e *Engine) reload(ctx context.Context, routeID string) {
	e.mu.Lock()
	current := e.routeID
	e.mu.Unlock()
	if routeID == "" || current != routeID {
		return
	}
	// load reports its own failure; the mutation itself already succeeded
	_ = e.load(ctx, routeID)
}

// SubmitTopLevelComment posts a new comment on the current route.
// No request is sent without a signed-in identity or with content shorter
// than MinContentLength.
func (e *Engine) SubmitTopLevelComment(ctx context.Context, content string) error {
	identity, text, err := e.checkSubmission(content)
	if err != nil {
		return err
	}

	e.mu.Lock()
	routeID := e.routeID
	e.mu.Unlock()
	if routeID == "" {
		return e.reject(response.NewValidationError("No route selected"), "no_route")
	}

	req := dto.CreateCommentRequest{
		RouteID: routeID,
		UserID:  identity.UserID,
		Content: text,
	}
	if _, err := e.store.Create(ctx, req); err != nil {
		e.mutationFailed(OpComment, err, zap.String("route_id", routeID))
		return err
	}

	e.metrics.RecordCommentMutation(OpComment, metrics.ResultSuccess)
	e.logger.Info("Comment posted", zap.String("route_id", routeID), zap.String("user_id", identity.UserID))
	e.sink.Notify("Comment posted", notify.KindSuccess)
	e.reload(ctx, routeID)
	return nil
}

// SetReplyTarget selects the node a following SubmitReply attaches to.
// Any node of the loaded thread qualifies, at any depth.
func (e *Engine) SetReplyTarget(nodeID string) error {
	e.mu.Lock()
	if e.index[nodeID] == nil {
		e.mu.Unlock()
		return e.reject(response.NewValidationError("Comment not found in this thread"), "unknown_target")
	}
	e.replyTarget = nodeID
	e.unlockAndPublish()
	return nil
}

// CancelReplyTarget clears the reply target
func (e *Engine) CancelReplyTarget() {
	e.mu.Lock()
	e.replyTarget = ""
	e.unlockAndPublish()
}

// SubmitReply posts a reply to the current reply target. On failure the target
// is kept so the reply can be retried.
func (e *Engine) SubmitReply(ctx context.Context, content string) error {
	identity, text, err := e.checkSubmission(content)
	if err != nil {
		return err
	}

	e.mu.Lock()
	routeID := e.routeID
	target := e.replyTarget
	e.mu.Unlock()
	if target == "" {
		return e.reject(response.NewValidationError("Select a comment to reply to"), "no_target")
	}

	req := dto.CreateCommentRequest{
		RouteID:         routeID,
		UserID:          identity.UserID,
		Content:         text,
		ParentCommentID: &target,
	}
	if _, err := e.store.Create(ctx, req); err != nil {
		e.mutationFailed(OpReply, err, zap.String("route_id", routeID), zap.String("parent_id", target))
		return err
	}

	e.mu.Lock()
	if e.replyTarget == target {
		e.replyTarget = ""
	}
	e.unlockAndPublish()

	e.metrics.RecordCommentMutation(OpReply, metrics.ResultSuccess)
	e.logger.Info("Reply posted",
		zap.String("route_id", routeID),
		zap.String("parent_id", target),
		zap.String("user_id", identity.UserID),
	)
	e.sink.Notify("Reply posted", notify.KindSuccess)
	e.reload(ctx, routeID)
	return nil
}

// DeleteNode deletes a comment and reloads the thread. Confirmation is the
// caller's job. What happens to replies of the deleted node is up to the server.
func (e *Engine) DeleteNode(ctx context.Context, nodeID string) error {
	if strings.TrimSpace(nodeID) == "" {
		return e.reject(response.NewValidationError("No comment selected"), "no_target")
	}
	if _, ok := e.session.Current(); !ok {
		return e.reject(response.NewAppError(response.ErrCodeUnauthorized, "Please sign in to delete comments", ""), "not_signed_in")
	}

	e.mu.Lock()
	routeID := e.routeID
	e.mu.Unlock()
	if routeID == "" {
		return e.reject(response.NewValidationError("No route selected"), "no_route")
	}

	if err := e.store.Delete(ctx, nodeID); err != nil {
		e.mutationFailed(OpDelete, err, zap.String("comment_id", nodeID))
		return err
	}

	e.metrics.RecordCommentMutation(OpDelete, metrics.ResultSuccess)
	e.logger.Info("Comment deleted", zap.String("route_id", routeID), zap.String("comment_id", nodeID))
	e.sink.Notify("Comment deleted", notify.KindSuccess)
	e.reload(ctx, routeID)
	return nil
}

// checkSubmission applies the identity and content gates shared by comments and replies
func (e *Engine) checkSubmission(content string) (session.Identity, string, error) {
	identity, ok := e.session.Current()
	if !ok || identity.UserID == "" {
		return session.Identity{}, "", e.reject(response.NewAppError(response.ErrCodeUnauthorized, "Please sign in to comment", ""), "not_signed_in")
	}
	text, err := ValidateContent(content)
	if err != nil {
		return session.Identity{}, "", e.reject(err, "content_too_short")
	}
	return identity, text, nil
}

// ValidateContent trims content and checks its length
func ValidateContent(content string) (string, error) {
	text := strings.TrimSpace(content)
	if utf8.RuneCountInString(text) < MinContentLength {
		return "", response.NewValidationError("Comment must be at least 3 characters")
	}
	return text, nil
}

func (e *Engine) reject(err error, reason string) error {
	e.metrics.RecordValidationRejection(reason)
	e.sink.Notify(response.MessageOf(err), notify.KindWarning)
	return err
}

func (e *Engine) mutationFailed(op string, err error, fields ...zap.Field) {
	e.metrics.RecordCommentMutation(op, metrics.ResultFailure)
	e.logger.Warn("Comment mutation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	e.report(err)
}

func (e *Engine) report(err error) {
	e.sink.Notify(response.MessageOf(err), notify.KindError)
}
