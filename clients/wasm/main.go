// Mockup WASM — Client-side mockup renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o mockup.wasm ./clients/wasm/

//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"syscall/js"

	"github.com/disintegration/imaging"

	"github.com/craftpress/mockup/pkg/catalog"
	"github.com/craftpress/mockup/pkg/compositor"
	"github.com/craftpress/mockup/pkg/studio"
)

// In-memory asset store for template art. The host page registers the
// garment and displacement images before the first render; there is no
// filesystem in WASM.
var (
	assetsMu sync.RWMutex
	assets   = make(map[string][]byte)
)

var session *studio.Session

func main() {
	fmt.Println("Mockup WASM loaded")

	session = studio.NewSession(studio.Options{
		Loader: compositor.LoaderFunc(loadAsset),
	})

	// Register JS-callable functions.
	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goTemplates", js.FuncOf(listTemplates))
	js.Global().Set("goSelectTemplate", js.FuncOf(selectTemplate))
	js.Global().Set("goUploadTemplate", js.FuncOf(uploadTemplate))
	js.Global().Set("goRemoveTemplate", js.FuncOf(removeTemplate))
	js.Global().Set("goSetDesign", js.FuncOf(setDesign))
	js.Global().Set("goRemoveDesign", js.FuncOf(removeDesign))
	js.Global().Set("goSetMethod", js.FuncOf(setMethod))
	js.Global().Set("goUpdateState", js.FuncOf(updateState))
	js.Global().Set("goGetState", js.FuncOf(getState))
	js.Global().Set("goPointerDown", js.FuncOf(pointerDown))
	js.Global().Set("goPointerMove", js.FuncOf(pointerMove))
	js.Global().Set("goPointerUp", js.FuncOf(pointerUp))
	js.Global().Set("goPointerCancel", js.FuncOf(pointerCancel))
	js.Global().Set("goRender", js.FuncOf(render))
	js.Global().Set("goExport", js.FuncOf(export))
	js.Global().Set("goExportName", js.FuncOf(exportName))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// loadAsset resolves template art from the registered store.
func loadAsset(ref string) (image.Image, error) {
	assetsMu.RLock()
	data, ok := assets[ref]
	assetsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("asset %q not registered", ref)
	}
	return imaging.Decode(bytes.NewReader(data))
}

// goRegisterAsset(path, base64Data) — store template art in Go memory.
func registerAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need path, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	assetsMu.Lock()
	assets[args[0].String()] = data
	assetsMu.Unlock()
	return js.ValueOf("ok")
}

// goTemplates() — return the catalog as JSON.
func listTemplates(this js.Value, args []js.Value) interface{} {
	active := session.ActiveTemplate().ID
	type info struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Custom        bool   `json:"custom"`
		Active        bool   `json:"active"`
		DefaultMethod string `json:"defaultMethod"`
	}
	var out []info
	for _, tpl := range session.Templates() {
		out = append(out, info{
			ID:            tpl.ID,
			Name:          tpl.Name,
			Custom:        tpl.Custom,
			Active:        tpl.ID == active,
			DefaultMethod: string(tpl.DefaultMethod),
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return js.ValueOf("error: encode: " + err.Error())
	}
	return js.ValueOf(string(data))
}

// goSelectTemplate(id) — switch the active template.
func selectTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need id")
	}
	if err := session.SelectTemplate(args[0].String()); err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf("ok")
}

// goUploadTemplate(base64Data) — upload a custom garment photo and
// select it. Returns the asset URI.
func uploadTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	uri, err := session.UploadCustomTemplate(data)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(uri)
}

// goRemoveTemplate() — clear the custom slot. Returns the id of the
// template that became active.
func removeTemplate(this js.Value, args []js.Value) interface{} {
	session.RemoveCustomTemplate()
	return js.ValueOf(session.ActiveTemplate().ID)
}

// goSetDesign(base64Data) — upload the design artwork. Returns the
// asset URI.
func setDesign(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	uri, err := session.SetDesign(data)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(uri)
}

func removeDesign(this js.Value, args []js.Value) interface{} {
	session.RemoveDesign()
	return js.ValueOf("ok")
}

// goSetMethod(name) — switch the print method effect.
func setMethod(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need method")
	}
	m, err := catalog.ParseMethod(args[0].String())
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	if err := session.SetMethod(m); err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf("ok")
}

// goUpdateState(patchJSON) — apply a partial state update (sliders,
// numeric inputs). Returns the clamped state as JSON.
func updateState(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need patchJSON")
	}
	var patch studio.StatePatch
	if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
		return js.ValueOf("error: parse patch: " + err.Error())
	}
	session.UpdateState(patch)
	return stateJSON()
}

func getState(this js.Value, args []js.Value) interface{} {
	return stateJSON()
}

func stateJSON() interface{} {
	data, err := json.Marshal(session.State())
	if err != nil {
		return js.ValueOf("error: encode: " + err.Error())
	}
	return js.ValueOf(string(data))
}

// ── Pointer gestures ──

// goPointerDown(mode, x, y, containerW, containerH) — begin a drag.
// Coordinates are in preview pixels.
func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return js.ValueOf("error: need mode, x, y, containerW, containerH")
	}
	mode := parseGestureMode(args[0].String())
	if mode == studio.GestureIdle {
		return js.ValueOf("error: unknown gesture mode " + args[0].String())
	}
	session.PointerDown(mode,
		studio.Point{X: args[1].Float(), Y: args[2].Float()},
		studio.Point{X: args[3].Float(), Y: args[4].Float()})
	return js.ValueOf("ok")
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need x, y")
	}
	session.PointerMove(studio.Point{X: args[0].Float(), Y: args[1].Float()})
	return stateJSON()
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	session.PointerUp()
	return js.ValueOf("ok")
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	session.PointerCancel()
	return js.ValueOf("ok")
}

func parseGestureMode(s string) studio.GestureMode {
	switch s {
	case "move":
		return studio.GestureMove
	case "rotate":
		return studio.GestureRotate
	case "resize":
		return studio.GestureResize
	}
	return studio.GestureIdle
}

// ── Render and export ──

// goRender() — composite the mockup and return base64 PNG.
func render(this js.Value, args []js.Value) interface{} {
	data, err := session.Render(context.Background())
	if err != nil {
		return js.ValueOf("error: render: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(data))
}

// goExport() — return the cached composite as base64 PNG for download.
// Fails if the inputs changed since the last render.
func export(this js.Value, args []js.Value) interface{} {
	var buf bytes.Buffer
	if err := session.Export(&buf); err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goExportName() — suggested download file name for the current
// template and method.
func exportName(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(session.ExportFileName())
}
