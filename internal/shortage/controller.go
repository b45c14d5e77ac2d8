package shortage

import (
	"sync"

	"go.uber.org/zap"

	"shortages/internal"
	"shortages/internal/pipeline"
)

// ChangeListener is called with the new snapshot after every mutation of the
// items or the font.
type ChangeListener func(internal.Snapshot) error

// ConfirmFunc asks the operator to approve a destructive action.
type ConfirmFunc func(prompt string) bool

const clearPrompt = "هل أنت متأكد من مسح القائمة بالكامل؟"

type Controller struct {
	mu        sync.Mutex
	state     State
	ids       pipeline.IDSource
	policy    pipeline.MergePolicy
	listeners []ChangeListener
	logger    *zap.Logger
}

type Option func(*Controller)

func WithIDSource(ids pipeline.IDSource) Option {
	return func(c *Controller) { c.ids = ids }
}

func WithMergePolicy(policy pipeline.MergePolicy) Option {
	return func(c *Controller) { c.policy = policy }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(snap internal.Snapshot, opts ...Option) *Controller {
	c := &Controller{
		state:  FromSnapshot(snap),
		ids:    pipeline.UUIDSource{},
		policy: pipeline.MergePrepend,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetMergePolicy changes where later imports land.
func (c *Controller) SetMergePolicy(policy pipeline.MergePolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = policy
}

func (c *Controller) OnChange(l ChangeListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() []internal.ShortageItem {
	return c.State().Visible()
}

// commit must be called with mu held. The first listener error is returned;
// the state change itself stands.
func (c *Controller) commit(next State) error {
	c.state = next
	snap := next.Snapshot()
	var firstErr error
	for _, l := range c.listeners {
		if err := l(snap); err != nil {
			c.logger.Error("change listener failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (c *Controller) AddBlank() (internal.ShortageItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, item := c.state.AddBlank(c.ids)
	c.logger.Debug("item added", zap.String("id", item.ID))
	return item, c.commit(next)
}

func (c *Controller) UpdateField(id string, field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.UpdateField(id, field, value)
	if err != nil {
		return err
	}
	return c.commit(next)
}

func (c *Controller) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.Remove(id)
	if err != nil {
		return err
	}
	c.logger.Debug("item removed", zap.String("id", id))
	return c.commit(next)
}

// ClearAll empties the list after confirm approves. It reports whether the
// list was cleared.
func (c *Controller) ClearAll(confirm ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(clearPrompt) {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Info("list cleared", zap.Int("removed", len(c.state.Items)))
	return true, c.commit(c.state.Clear(c.ids))
}

// Import merges entries into the list. Nothing happens for blank input.
func (c *Controller) Import(entries []pipeline.Entry) ([]internal.ShortageItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, imported, ok := c.state.Import(entries, c.policy, c.ids)
	if !ok {
		return nil, nil
	}
	c.logger.Info("items imported", zap.Int("count", len(imported)), zap.String("policy", string(c.policy)))
	return imported, c.commit(next)
}

// ImportText splits and imports a pasted blob.
func (c *Controller) ImportText(blob string) ([]internal.ShortageItem, error) {
	return c.Import(pipeline.LineEntries(pipeline.SplitBulkText(blob)))
}

func (c *Controller) SetFont(font internal.FontConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.SetFont(font)
	if err != nil {
		return err
	}
	return c.commit(next)
}

// SetFilter changes the view only. View changes never reach listeners.
func (c *Controller) SetFilter(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SetFilter(term)
}

func (c *Controller) SetSort(directive *pipeline.SortDirective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SetSort(directive)
}

func (c *Controller) ToggleSort(field pipeline.SortField) pipeline.SortDirective {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := pipeline.ToggleSort(c.state.Sort, field)
	c.state = c.state.SetSort(&next)
	return next
}
