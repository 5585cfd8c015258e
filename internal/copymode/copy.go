package copymode

// copyBuffer sends data to the clipboard and a new paste buffer.
func (m *Mode) copyBuffer(prefix, data string) {
	if m.opts.Clipboard != nil {
		m.opts.Clipboard(data)
	}
	if m.opts.Buffers != nil {
		m.opts.Buffers.Add(prefix, data)
	}
}

// pipeRun feeds the selection to command, or to the copy-command option
// when command is empty, and returns the selection.
func (m *Mode) pipeRun(command string) (string, bool) {
	data, err := m.GetSelection()
	if err != nil {
		return "", false
	}
	if command == "" {
		command = m.opts.CopyCommand
	}
	if command != "" {
		if err := m.opts.Pipe(command, data); err != nil {
			m.logf("pipe: %v", err)
		}
	}
	return data, true
}

func (m *Mode) copyPipe(prefix, command string) {
	if data, ok := m.pipeRun(command); ok {
		m.copyBuffer(prefix, data)
	}
}

func (m *Mode) pipe(command string) {
	m.pipeRun(command)
}

func (m *Mode) copySelection(prefix string) {
	if data, err := m.GetSelection(); err == nil {
		m.copyBuffer(prefix, data)
	}
}

// appendSelection adds the selection to the end of the most recent
// buffer.
func (m *Mode) appendSelection() {
	data, err := m.GetSelection()
	if err != nil {
		return
	}
	if m.opts.Clipboard != nil {
		m.opts.Clipboard(data)
	}
	if m.opts.Buffers == nil {
		return
	}
	name, top, ok := m.opts.Buffers.Top()
	if !ok {
		m.opts.Buffers.Add("", data)
		return
	}
	if err := m.opts.Buffers.Set(name, top+data); err != nil {
		m.logf("append-selection: %v", err)
	}
}

// Copy copies the selection into a new buffer and returns it.
func (m *Mode) Copy() (string, error) {
	data, err := m.GetSelection()
	if err != nil {
		return "", err
	}
	m.copyBuffer("", data)
	return data, nil
}
