package aio

// Eof reports whether the end of stream was reached. Until it latches, the
// engine is asked on each call: at the end the OnEOF handler fires once and
// the file is closed, otherwise the OnReady handler fires. A closed file or a
// failed probe counts as end of stream.
func (f *File) Eof() bool {
	if f.eof {
		return true
	}

	ended := true
	if f.descriptor != nil {
		eof, err := f.engine.EOF(f.descriptor, f.position)
		if err != nil {
			f.log.Debug("Eof: probe of %s (%s) failed - %v", f.path, f.id, err)
		} else {
			ended = eof
		}
	}

	if ended {
		f.handleEOF()
	} else if f.onReady != nil {
		f.onReady(f)
	}
	return f.eof
}

func (f *File) handleEOF() {
	f.eof = true

	if f.onEOF != nil {
		f.onEOF(f)
	}
	if f.descriptor != nil {
		if err := f.Close(); err != nil {
			f.log.Warn("Eof: unable to close %s (%s) - %v", f.path, f.id, err)
		}
	}
}
