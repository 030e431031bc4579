package loader

// Base implements the locking protocol, progress bookkeeping and listener
// dispatch shared by every concrete Loader. Format decoders embed *Base and
// only implement the format-specific parsing plus the handful of methods
// Base cannot know (IsValidFile, Load).
//
// The locking model is logical, not a mutex: a Loader is owned by exactly
// one caller (§5 of the module's concurrency design), so a plain bool
// field is enough to reject reentrant mutation from within a callback.
type Base struct {
	format Format

	path string

	listener Listener

	locked       bool
	lastProgress float64
	progressSet  bool

	cfg Config
}

// NewBase constructs a Base for the given format and configuration.
func NewBase(format Format, cfg Config) *Base {
	return &Base{format: format, cfg: cfg, listener: NopListener{}}
}

func (b *Base) MeshFormat() Format { return b.format }

func (b *Base) HasFile() bool { return b.path != "" }

func (b *Base) IsLocked() bool { return b.locked }

func (b *Base) IsReady() bool { return b.HasFile() && !b.locked }

// Config returns the decoder's active configuration.
func (b *Base) Config() Config { return b.cfg }

// Path returns the bound file path, or "" if none is bound.
func (b *Base) Path() string { return b.path }

// SetFile implements Loader.SetFile's locking check; concrete loaders call
// this then do their own format-specific validation.
func (b *Base) SetFile(path string) error {
	if b.locked {
		return New(Locked, "cannot set file while loader is locked")
	}
	b.path = path
	return nil
}

// SetListener implements Loader.SetListener's locking check.
func (b *Base) SetListener(l Listener) {
	if b.locked {
		return
	}
	if l == nil {
		l = NopListener{}
	}
	b.listener = l
}

// Listener returns the currently installed listener (never nil).
func (b *Base) Listener() Listener { return b.listener }

// RequireReady returns NotReady if the loader cannot currently load, and
// Locked if a load is already in flight.
func (b *Base) RequireReady() error {
	if b.locked {
		return New(Locked, "loader is already locked")
	}
	if !b.HasFile() {
		return New(NotReady, "no file bound")
	}
	return nil
}

// Lock transitions into the locked state and fires onLoadStart. Callers
// use this at the top of Load().
func (b *Base) Lock(self Loader) {
	b.locked = true
	b.progressSet = false
	b.listener.OnLoadStart(self)
}

// Unlock clears the locked state. Callers use this once the iterator is
// exhausted or Close() is called.
func (b *Base) Unlock() { b.locked = false }

// Close implements the Loader.Close locking side-effect shared by every
// format decoder: it simply clears the lock. Decoders that hold an open
// file handle (ply, codec) wrap this
// with their own Close to also release that handle.
func (b *Base) Close() error {
	b.Unlock()
	return nil
}

// ReportProgress fires onLoadProgressChange if progress has advanced by at
// least 0.01 since the last report (or this is the first report, or
// progress reaches 1 for the first time), keeping the
// monotonic-non-decreasing, [0,1]-bounded guarantee from §8.
func (b *Base) ReportProgress(self Loader, progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	if b.progressSet && progress < b.lastProgress {
		progress = b.lastProgress
	}
	if b.progressSet && progress-b.lastProgress < 0.01 && (progress != 1 || b.lastProgress == 1) {
		return
	}
	b.lastProgress = progress
	b.progressSet = true
	b.listener.OnLoadProgressChange(self, progress)
}

// ReportEnd fires onLoadEnd and clears the lock.
func (b *Base) ReportEnd(self Loader) {
	if !b.progressSet || b.lastProgress < 1 {
		b.lastProgress = 1
		b.listener.OnLoadProgressChange(self, 1)
	}
	b.listener.OnLoadEnd(self)
	b.Unlock()
}
