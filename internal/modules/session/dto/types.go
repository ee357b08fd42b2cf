package dto

// SessionRecord mirrors a finished session across module boundaries. Nil
// Intent/Outcome means the note is absent, not empty.
type SessionRecord struct {
	ID      string
	Game    string
	Start   int64
	End     int64
	Intent  *string
	Outcome *string
}

type StartInput struct {
	Game   string
	Intent string
}

type ActiveOutput struct {
	ID        string
	Game      string
	Start     int64
	Intent    string
	ElapsedMS int64
}

type CheckoutInput struct {
	Outcome string
	Skip    bool
}

// ManualAddInput carries raw user text; the usecase owns parsing and the
// title -> time parse -> ordering validation priority.
type ManualAddInput struct {
	Game    string
	Start   string
	End     string
	Intent  string
	Outcome string
}

// EditInput updates mutable fields by id. Nil means leave unchanged; an
// empty note string clears the note.
type EditInput struct {
	ID      string
	Game    *string
	Intent  *string
	Outcome *string
}

type DayOutput struct {
	DayKey   int64
	Sessions []SessionRecord
	TotalMS  int64
}

type ImportMergeOutput struct {
	Merged     int
	Collection int
}
