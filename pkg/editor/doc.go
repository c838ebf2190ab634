// Package editor composes live editor trees from field descriptors.
//
// Every Node mirrors one model.Field and addresses the form-state container
// at a structural path. Record and tuple nodes create their children once.
// Vector and optional nodes start collapsed and grow through Append,
// OnResize and OnExpand. Variant nodes keep exactly one active alternative
// and rebuild it from the alternative's default on OnRetag. Recursive nodes
// derive their body lazily, one level at a time, on first use.
//
// Nodes implement widgets.Handle, so the render pass can drive them
// directly:
//
//	c := editor.New(editor.WithRandom(true))
//	root, _ := c.Mount(field, "args")
//	_ = root.SetValue([]any{true, []any{big.NewInt(1)}})
//	_ = root.Submit(func(v any) error { return send(v) })
package editor
