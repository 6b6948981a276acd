package bind_group_provider

// BufferWrite is one queued upload into the buffer at Binding on Provider. Scene.Prepare
// collects a frame's worth of them and hands the batch to Renderer.WriteBuffers.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Write returns a BufferWrite that replaces the buffer contents from offset zero.
//
// Parameters:
//   - provider: the provider owning the buffer
//   - binding: the buffer's binding index
//   - data: the bytes to upload
//
// Returns:
//   - BufferWrite: the queued write
func Write(provider BindGroupProvider, binding int, data []byte) BufferWrite {
	return BufferWrite{Provider: provider, Binding: binding, Data: data}
}

// Pending reports whether the write has somewhere to go and something to send.
// Writes to a provider without a GPU buffer at Binding are skipped.
func (w BufferWrite) Pending() bool {
	return w.Provider != nil && len(w.Data) > 0 && w.Provider.Buffer(w.Binding) != nil
}
