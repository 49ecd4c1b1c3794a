package fetcher

// FileResult is the outcome of one matched file
type FileResult struct {
	Name      string
	LocalPath string
	Bytes     int64
	Err       error
}

// WeekResult is the outcome of one week identifier
type WeekResult struct {
	Week    string
	Matched int
	Files   []FileResult
	// Err is set when the week could not be entered, listed or left
	Err error
}

// Failed reports whether the week itself or any of its files failed
func (w *WeekResult) Failed() bool {
	if w.Err != nil {
		return true
	}
	for _, f := range w.Files {
		if f.Err != nil {
			return true
		}
	}
	return false
}

// Report collects the outcome of a run in the order weeks were requested
type Report struct {
	Weeks []WeekResult
}

// Downloaded returns the number of files written successfully
func (r *Report) Downloaded() int {
	n := 0
	for _, w := range r.Weeks {
		for _, f := range w.Files {
			if f.Err == nil {
				n++
			}
		}
	}
	return n
}

// TotalBytes returns the number of bytes written by successful transfers
func (r *Report) TotalBytes() int64 {
	var n int64
	for _, w := range r.Weeks {
		for _, f := range w.Files {
			if f.Err == nil {
				n += f.Bytes
			}
		}
	}
	return n
}

// FailedWeeks returns the weeks that could not be processed at all
func (r *Report) FailedWeeks() []WeekResult {
	var failed []WeekResult
	for _, w := range r.Weeks {
		if w.Err != nil {
			failed = append(failed, w)
		}
	}
	return failed
}

// FailedFiles returns the individual files that could not be retrieved
func (r *Report) FailedFiles() []FileResult {
	var failed []FileResult
	for _, w := range r.Weeks {
		for _, f := range w.Files {
			if f.Err != nil {
				failed = append(failed, f)
			}
		}
	}
	return failed
}
