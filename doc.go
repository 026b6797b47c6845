// Package isobuild renders sparse voxel builds as isometric 2D scenes and
// hosts a small layer editor for them on [Ebitengine].
//
// # Rendering pipeline
//
// A [VoxelStore] maps grid cells to block ids. A [Compositor] turns the
// store and a [ViewState] into an ordered list of [DrawCommand] values:
//
//	cfg := isobuild.DefaultConfig()
//	store := isobuild.NewVoxelStore(cfg.Grid.Size)
//	store.Set(isobuild.Coord{X: 0, Z: 0, Y: 0}, "stone")
//
//	comp := isobuild.NewCompositor(cfg, isobuild.DefaultCatalog(), isobuild.DirSource())
//	cmds := comp.RenderFrame(store, isobuild.ViewState{Zoom: 2}, isobuild.Vec2{X: 800, Y: 600})
//
// Each voxel is projected by a [Projector], sorted back to front by its
// depth key and painted as three faces (left, right, top). Blocks with a
// texture get perspective-warped face images from a [Warper]; everything
// else, and any face whose texture fails, is drawn as a shaded polygon.
//
// Commands are played onto a [Surface] with [Submit]. [ImageSurface] is a
// headless raster backed by [gg]; [EbitenSurface] draws into a window.
//
// # Editor
//
// [Editor] wires the store, a [Viewport] and the compositor to input
// events and debounces redraws per view through a [RedrawScheduler]:
//
//	editor := isobuild.NewEditor(cfg, nil, isobuild.DirSource())
//	isobuild.Run(editor, isobuild.RunConfigFrom(cfg))
//
// Synthetic input ([Editor.InjectClick] and friends) and JSON scripts
// ([LoadScript]) drive the editor without a pointer, and
// [Editor.Screenshot] writes the preview to PNG without a window.
//
// # Logging
//
// Nothing is logged until [SetLogger] installs a [log/slog] logger.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
package isobuild
