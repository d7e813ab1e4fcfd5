package spectrum

// InputHookFunc is the host's I/O read handler. ok=false means the host
// declined to answer: the default floating-bus value is used instead and
// machine_stopped is raised.
type InputHookFunc func(port uint16) (value byte, ok bool)

// OutputHookFunc observes every OUT cycle after bookkeeping (border latch,
// port-write log) has already happened.
type OutputHookFunc func(port uint16, value byte)

// Machine is MACH: the coupled CPU/ULA driver. It owns MEM, SCR, PLOG,
// MARKS and the Z80, and is the sole implementation of the Host contract
// the CPU is coupled to. A Machine is not safe for concurrent use; all
// operations on one instance are sequential (see DESIGN.md).
type Machine struct {
	cpu    *Z80
	mem    *Memory
	scr    *Screen
	ula    *ULA
	marks  *Marks
	plog   *PortLog
	tracer *Tracer

	image StateImage

	ticksSinceInt int
	ticksToStop   uint32
	fetchesToStop uint32
	frameCount    uint64

	addrBus         uint16
	intSuppressed   bool
	pendingSuppress bool

	inputHook  InputHookFunc
	outputHook OutputHookFunc

	scripts *ScriptEngine
	events  Events
}

// NewMachine returns a freshly reset 48K machine.
func NewMachine() *Machine {
	m := &Machine{
		mem:   NewMemory(),
		marks: NewMarks(),
		plog:  NewPortLog(),
	}
	m.scr = NewScreen()
	m.ula = NewULA(m.mem, m.scr)
	m.cpu = NewZ80(m)
	m.scripts = NewScriptEngine()
	m.fetchesToStop = 0
	m.ticksToStop = 0
	m.image.IntAfterEIAllowed = 0
	return m
}

// InstallInputHook sets the handler consulted on every IN cycle.
func (m *Machine) InstallInputHook(fn InputHookFunc) { m.inputHook = fn }

// InstallOutputHook sets the handler invoked after every OUT cycle.
func (m *Machine) InstallOutputHook(fn OutputHookFunc) { m.outputHook = fn }

// Memory returns a mutable view of the 64 KiB RAM image.
func (m *Machine) Memory() []byte { return m.mem.Bytes() }

// Screen returns a read-only view of the rendered frame's chunk buffer.
func (m *Machine) Screen() [FrameHeight][ChunksPerLine]uint32 { return m.scr.Chunks() }

// PortLog returns the writes recorded so far this frame.
func (m *Machine) PortLog() []PortWriteEntry { return m.plog.Entries() }

// StateImage returns the current packed state image.
func (m *Machine) StateImage() StateImage {
	img := m.image
	img.TicksSinceInt = uint32(m.ticksSinceInt)
	img.FetchesToStop = m.fetchesToStop
	img.IntSuppressed = boolByte(m.intSuppressed)
	return img
}

// InstallStateImage validates and adopts img as the machine's observable
// state. Returns an error (and leaves the machine untouched) on an
// illegal field value.
func (m *Machine) InstallStateImage(img StateImage) error {
	if err := img.Validate(); err != nil {
		return err
	}
	m.image = img
	m.ticksSinceInt = int(img.TicksSinceInt)
	m.fetchesToStop = img.FetchesToStop
	m.intSuppressed = img.IntSuppressed != 0
	m.ula.BorderColour = img.BorderColour
	return nil
}

// SetBreakpoint/ClearBreakpoint mark or unmark addr for MARKS.
func (m *Machine) SetBreakpoint(addr uint16)   { m.marks.Mark(addr, MarkBreakpoint) }
func (m *Machine) ClearBreakpoint(addr uint16) { m.marks.Unmark(addr, MarkBreakpoint) }
func (m *Machine) IsVisited(addr uint16) bool  { return m.marks.IsMarked(addr, MarkVisited) }

// MarkBreakpointRange/MarkVisitedRange append marks over length addresses
// starting at addr, wrapping modulo 2^16.
func (m *Machine) MarkBreakpointRange(addr uint16, length int) {
	m.marks.MarkRange(addr, length, MarkBreakpoint)
}
func (m *Machine) MarkVisitedRange(addr uint16, length int) {
	m.marks.MarkRange(addr, length, MarkVisited)
}

// SetBreakpointCondition attaches a Lua boolean expression to addr; the
// breakpoint only raises breakpoint_hit while the expression evaluates
// truthy. An empty expr makes an existing breakpoint unconditional again.
func (m *Machine) SetBreakpointCondition(addr uint16, expr string) {
	m.scripts.SetCondition(addr, expr)
}

// SetTicksToStop/SetFetchesToStop arm the corresponding stop counters; 0
// disables the corresponding limit.
func (m *Machine) SetTicksToStop(n uint32)   { m.ticksToStop = n }
func (m *Machine) SetFetchesToStop(n uint32) { m.fetchesToStop = n }

// Stop sets machine_stopped; the running loop observes it at the next
// event-bit check. Safe to call from within a host callback (e.g. an
// input hook) on the same goroutine that owns this Machine.
func (m *Machine) Stop() { m.events |= EventMachineStopped }

// EnableTrace turns on instruction-boundary capture via tr.
func (m *Machine) EnableTrace(tr *Tracer) {
	m.tracer = tr
	m.image.TraceEnabled = 1
}

// DisableTrace turns capture back off.
func (m *Machine) DisableTrace() {
	m.image.TraceEnabled = 0
}

// Run advances the CPU one instruction at a time until an event fires or
// the frame's tick budget is exhausted, returning the resulting bitmap.
func (m *Machine) Run() Events {
	m.events = 0
	m.image.Install(m.cpu)

	if m.ticksSinceInt >= TicksPerFrame {
		m.ticksSinceInt %= TicksPerFrame
		m.ula.ResetFrame()
		m.frameCount++
		if m.frameCount%16 == 0 {
			m.ula.AdvanceFlash()
		}
		m.plog.Reset()
	}

	tickedThroughFrame := false
	for m.events == 0 && m.ticksSinceInt < TicksPerFrame {
		if !m.intSuppressed && m.ticksSinceInt-1 < TicksPerActiveInt {
			m.cpu.HandleActiveInt()
		}
		// Refresh the register fields of the image so the tracer and
		// breakpoint conditions see the state at this instruction boundary.
		m.image.Retrieve(m.cpu)
		if m.tracer != nil && m.image.TraceEnabled != 0 {
			m.tracer.Capture(m.cpu.PC, m.StateImage(), m.mem.Read, IregpKind(m.cpu.IregpKind()))
		}
		m.marks.Mark(m.cpu.PC, MarkVisited)
		if m.marks.IsMarked(m.cpu.PC, MarkBreakpoint) && m.scripts.Evaluate(m.cpu.PC, m.StateImage()) {
			m.events |= EventBreakpointHit
			break
		}

		m.cpu.Step()
		tickedThroughFrame = true

		m.intSuppressed = m.pendingSuppress
		m.pendingSuppress = false
	}
	if tickedThroughFrame && m.ticksSinceInt >= TicksPerFrame {
		m.events |= EventEndOfFrame
	}

	m.image.Retrieve(m.cpu)
	return m.events
}

// HandleActiveInt installs the image, asks the CPU to sample ~INT once,
// and retrieves the image back. Exposed for hosts that want to drive the
// interrupt window themselves outside of Run.
func (m *Machine) HandleActiveInt() bool {
	m.image.Install(m.cpu)
	accepted := m.cpu.HandleActiveInt()
	m.image.Retrieve(m.cpu)
	return accepted
}

// tickBy advances the master tick counter by n and renders the ULA up to
// the new position, then evaluates the ticks_to_stop counter.
func (m *Machine) tickBy(n int) {
	if n <= 0 {
		return
	}
	m.ticksSinceInt += n
	m.ula.RenderTo(m.ticksSinceInt)
	if m.ticksToStop > 0 {
		if uint32(n) >= m.ticksToStop {
			m.ticksToStop = 0
			m.events |= EventTicksLimitHit
		} else {
			m.ticksToStop -= uint32(n)
		}
	}
}

// contendAt applies the memory-contention delay for addr at the current
// tick and returns the number of ticks it charged.
func (m *Machine) contendAt(addr uint16) int {
	delay := memoryContentionDelay(addr, m.ticksSinceInt)
	if delay > 0 {
		m.tickBy(delay)
	}
	return delay
}

// --- Host interface: the CPU's sole view of this Machine. ---

func (m *Machine) M1Fetch(addr uint16) byte {
	m.contendAt(addr)
	value := m.mem.Read(addr)
	m.tickBy(4)
	if m.fetchesToStop > 0 {
		m.fetchesToStop--
		if m.fetchesToStop == 0 {
			m.events |= EventFetchesLimitHit
		}
	}
	return value
}

func (m *Machine) Fetch(addr uint16) byte {
	m.contendAt(addr)
	value := m.mem.Read(addr)
	m.tickBy(3)
	return value
}

func (m *Machine) Read(addr uint16) byte {
	m.contendAt(addr)
	value := m.mem.Read(addr)
	m.tickBy(3)
	return value
}

func (m *Machine) Write(addr uint16, value byte) {
	m.contendAt(addr)
	m.ula.RenderTo(m.ticksSinceInt + 1)
	m.mem.Write(addr, value)
	m.tickBy(3)
}

func (m *Machine) Input(port uint16) byte {
	for _, step := range portContentionSteps(port) {
		if step.contendBefore {
			m.contendAt(port)
		}
		m.tickBy(step.plainTicks)
	}
	if m.inputHook != nil {
		if value, ok := m.inputHook(port); ok {
			return value
		}
		m.events |= EventMachineStopped
	}
	return 0xBF
}

func (m *Machine) Output(port uint16, value byte) {
	if port&0xFF == ULABorderPort {
		m.ula.RenderTo(m.ticksSinceInt + 1)
		m.ula.BorderColour = value & 7
		m.image.BorderColour = value & 7
	}
	m.plog.Append(port, value, uint32(m.ticksSinceInt))
	if m.outputHook != nil {
		m.outputHook(port, value)
	}
	for _, step := range portContentionSteps(port) {
		if step.contendBefore {
			m.contendAt(port)
		}
		m.tickBy(step.plainTicks)
	}
}

func (m *Machine) ReadExtra(n int) {
	m.contendAt(m.addrBus)
	m.tickBy(n)
}

func (m *Machine) WriteExtra2T() {
	m.contendAt(m.addrBus)
	m.tickBy(2)
}

func (m *Machine) ExecExtra(n int) {
	m.contendAt(m.addrBus)
	m.tickBy(n)
}

func (m *Machine) SetAddrBus(addr uint16) { m.addrBus = addr }

func (m *Machine) DisableIntOnEI() {
	if m.image.IntAfterEIAllowed == 0 {
		m.pendingSuppress = true
	}
}
