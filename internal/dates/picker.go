package dates

// PickerConfig configures a Picker.
type PickerConfig struct {
	// InitialValue, when non-nil, seeds the selection and cursor on Open.
	InitialValue *CalendarDate
	// MinimumAllowed disables all earlier days. Defaults to tomorrow
	// relative to the clock at construction time.
	MinimumAllowed *CalendarDate
	// Clock supplies "today". Defaults to the real clock.
	Clock Clock
}

// Picker is the date-picker dialog state machine: Closed -> Open -> Closed.
// While open it holds a month cursor and an optional selected day; Confirm
// emits the canonical string of the selection, Cancel discards it. Selecting
// a disabled day is a no-op, never an error.
type Picker struct {
	clock Clock
	min   CalendarDate

	initial   *CalendarDate
	open      bool
	cursor    Cursor
	selection *CalendarDate
}

// NewPicker builds a closed Picker from cfg.
func NewPicker(cfg PickerConfig) *Picker {
	clock := cfg.Clock
	if clock == nil {
		clock = Today
	}
	min := clock().AddDays(1)
	if cfg.MinimumAllowed != nil {
		min = *cfg.MinimumAllowed
	}
	return &Picker{
		clock:   clock,
		min:     min,
		initial: cfg.InitialValue,
	}
}

// Open transitions to the open state. With a prior value the cursor and
// selection start from it; otherwise both start at tomorrow relative to the
// instant of opening, clamped forward to the minimum allowed date.
func (p *Picker) Open() {
	start := p.clock().AddDays(1)
	if p.initial != nil {
		start = *p.initial
	}
	if IsDisabled(start, p.min) {
		start = p.min
	}
	sel := start
	p.selection = &sel
	p.cursor = CursorFor(start)
	p.open = true
}

// IsOpen reports whether the dialog is open.
func (p *Picker) IsOpen() bool { return p.open }

// Cursor returns the displayed month.
func (p *Picker) Cursor() Cursor { return p.cursor }

// Selection returns the current selection, if any.
func (p *Picker) Selection() (CalendarDate, bool) {
	if p.selection == nil {
		return CalendarDate{}, false
	}
	return *p.selection, true
}

// MinimumAllowed returns the earliest selectable date.
func (p *Picker) MinimumAllowed() CalendarDate { return p.min }

// SelectDay sets the selection to d. Disabled days are silently ignored.
func (p *Picker) SelectDay(d CalendarDate) {
	if !p.open || IsDisabled(d, p.min) {
		return
	}
	sel := d
	p.selection = &sel
}

// Navigate shifts the displayed month by delta without touching the selection.
func (p *Picker) Navigate(delta int) {
	if !p.open {
		return
	}
	p.cursor = p.cursor.Navigate(delta)
}

// PickToday, PickTomorrow, and PickNextWeek are the quick-pick shortcuts:
// today+0, +1, and +7 days. A quick pick before the minimum allowed date is
// a no-op. The cursor follows an accepted pick.
func (p *Picker) PickToday() { p.quickPick(0) }

// PickTomorrow selects tomorrow.
func (p *Picker) PickTomorrow() { p.quickPick(1) }

// PickNextWeek selects the day one week out.
func (p *Picker) PickNextWeek() { p.quickPick(7) }

func (p *Picker) quickPick(offset int) {
	if !p.open {
		return
	}
	d := p.clock().AddDays(offset)
	if IsDisabled(d, p.min) {
		return
	}
	p.SelectDay(d)
	p.cursor = CursorFor(d)
}

// Confirm closes the dialog and returns the canonical string of the
// selection. It reports false, leaving the dialog open, when nothing is
// selected.
func (p *Picker) Confirm() (string, bool) {
	if !p.open || p.selection == nil {
		return "", false
	}
	out := p.selection.String()
	p.close()
	return out, true
}

// Cancel closes the dialog and discards the selection.
func (p *Picker) Cancel() {
	if !p.open {
		return
	}
	p.close()
}

func (p *Picker) close() {
	p.open = false
	p.selection = nil
	p.cursor = Cursor{}
}
