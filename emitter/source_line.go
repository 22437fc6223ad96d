package emitter

// SetSourceLine records that the bytecode emitted from this point
// onward corresponds to source line, encoding the (Δbytes, Δlines)
// transition from the last recorded checkpoint into the code-info
// stream (spec.md §4.3). If EnableSourceLine is false, or
// OptimizationLevel is >= 3, line tracking is suppressed entirely and
// this call is a no-op.
func (s *State) SetSourceLine(line int) {
	if s.pass == Scope {
		return
	}
	if !s.Config.EnableSourceLine || s.Config.OptimizationLevel >= 3 {
		return
	}
	for _, b := range s.lineEncoder.Advance(s.bytecode.Offset(), line) {
		s.codeInfo.WriteByte(b)
	}
}
