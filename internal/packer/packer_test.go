package packer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline93/glbpack/internal/errors"
	"github.com/skyline93/glbpack/internal/glb"
)

func writeFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0700))
	require.NoError(t, os.WriteFile(name, data, 0600))
	return name
}

func decodeFile(t testing.TB, name string) (*glb.Container, []byte) {
	t.Helper()
	buf, err := os.ReadFile(name)
	require.NoError(t, err)
	c, err := glb.Decode(buf)
	require.NoError(t, err)
	require.NotNil(t, c.BIN)
	return c, buf
}

func TestRunFiveBytes(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(`{"buffers":[{"uri":"data.bin"}]}`))
	writeFile(t, filepath.Join(dir, "data.bin"), []byte{1, 2, 3, 4, 5})
	output := filepath.Join(dir, "scene.glb")

	res, err := Run(input, output)
	require.NoError(t, err)

	c, buf := decodeFile(t, output)

	jsonChunk := []byte(`{"buffers":[{"uri":null,"byteLength":5}]}   `)
	assert.Equal(t, jsonChunk, c.JSON.Data)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0}, c.BIN.Data)

	want := 12 + 8 + len(jsonChunk) + 8 + 8
	assert.Equal(t, 80, want)
	assert.Len(t, buf, want)
	assert.Equal(t, uint32(want), binary.LittleEndian.Uint32(buf[8:12]))

	assert.Equal(t, Result{
		Input:      input,
		Output:     output,
		Size:       want,
		JSONLength: len(jsonChunk),
		BinLength:  8,
		ByteLength: 5,
	}, res)
}

func TestRunProperties(t *testing.T) {
	docs := []string{
		`{"asset":{"version":"2.0"},"buffers":[{"uri":"data.bin"}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"uri":"data.bin","byteLength":1}],"meshes":[]}`,
		"{\n  \"buffers\": {\n    \"main\": { \"uri\": \"data.bin\" }\n  }\n}\n",
		`{"buffers":[{"name":"é","uri":"data.bin"}]}`,
	}

	for _, doc := range docs {
		for size := 0; size < 9; size++ {
			dir := t.TempDir()
			input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(doc))

			payload := make([]byte, size)
			for i := range payload {
				payload[i] = byte(0xa0 + i)
			}
			writeFile(t, filepath.Join(dir, "data.bin"), payload)

			output := filepath.Join(dir, "scene.glb")
			res, err := Run(input, output)
			require.NoError(t, err)

			c, buf := decodeFile(t, output)
			assert.Equal(t, len(buf), res.Size)
			assert.Equal(t, uint32(len(buf)), c.Length)

			assert.Zero(t, len(c.JSON.Data)%4)
			assert.Zero(t, len(c.BIN.Data)%4)
			assert.True(t, len(c.BIN.Data)-size <= 3)

			assert.Equal(t, payload, c.BIN.Data[:size])
			assert.Equal(t, make([]byte, len(c.BIN.Data)-size), c.BIN.Data[size:])

			text := bytes.TrimRight(c.JSON.Data, " ")
			assert.True(t, len(c.JSON.Data)-len(text) <= 3)

			var parsed map[string]interface{}
			require.NoError(t, json.Unmarshal(text, &parsed))

			var buffer map[string]interface{}
			switch b := parsed["buffers"].(type) {
			case []interface{}:
				buffer = b[0].(map[string]interface{})
			case map[string]interface{}:
				buffer = b["main"].(map[string]interface{})
			default:
				t.Fatalf("unexpected buffers %#v", b)
			}
			assert.Nil(t, buffer["uri"])
			assert.Contains(t, buffer, "uri")
			assert.EqualValues(t, size, buffer["byteLength"])
		}
	}
}

func TestRunBinaryRelativeToDocument(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "models", "scene.gltf"), []byte(`{"buffers":[{"uri":"buffers/data.bin"}]}`))
	writeFile(t, filepath.Join(dir, "models", "buffers", "data.bin"), []byte("abcd"))

	output := filepath.Join(dir, "out.glb")
	_, err := Run(input, output)
	require.NoError(t, err)

	c, _ := decodeFile(t, output)
	assert.Equal(t, []byte("abcd"), c.BIN.Data)
}

func TestRunErrors(t *testing.T) {
	var tests = []struct {
		name   string
		doc    string
		bin    bool
		format bool
		io     bool
		msg    string
	}{
		{name: "invalid json", doc: `{"buffers":[`, bin: true, format: true, msg: "load document"},
		{name: "invalid utf-8", doc: "{\"asset\":{\"generator\":\"\xff\xfe\"},\"buffers\":[{\"uri\":\"data.bin\"}]}", bin: true, format: true, msg: "not valid UTF-8"},
		{name: "empty sequence", doc: `{"buffers":[]}`, bin: true, format: true, msg: "Unsupported buffers structure"},
		{name: "empty mapping", doc: `{"buffers":{}}`, bin: true, format: true, msg: "Unsupported buffers structure"},
		{name: "no buffers", doc: `{"asset":{}}`, bin: true, format: true, msg: "Unsupported buffers structure"},
		{name: "no uri", doc: `{"buffers":[{"byteLength":5}]}`, bin: true, format: true, msg: "No external buffer uri found on the first buffer"},
		{name: "empty uri", doc: `{"buffers":[{"uri":""}]}`, bin: true, format: true, msg: "No external buffer uri found on the first buffer"},
		{name: "missing binary", doc: `{"buffers":[{"uri":"data.bin"}]}`, bin: false, io: true, msg: "load binary"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(test.doc))
			if test.bin {
				writeFile(t, filepath.Join(dir, "data.bin"), []byte{1})
			}
			output := filepath.Join(dir, "scene.glb")

			_, err := Run(input, output)
			require.Error(t, err)
			assert.Equal(t, test.format, errors.IsFormatError(err), "%v", err)
			assert.Equal(t, test.io, errors.IsIOError(err), "%v", err)
			assert.Contains(t, err.Error(), test.msg)

			_, err = os.Stat(output)
			assert.True(t, os.IsNotExist(err), "output written despite error")
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(filepath.Join(dir, "missing.gltf"), filepath.Join(dir, "out.glb"))
	require.Error(t, err)
	assert.True(t, errors.IsFormatError(err))
	assert.Contains(t, err.Error(), "load document")
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(`{"buffers":[{"uri":"data.bin"}]}`))
	writeFile(t, filepath.Join(dir, "data.bin"), []byte{1})

	_, err := Run(input, filepath.Join(dir, "missing", "scene.glb"))
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))
	assert.Contains(t, err.Error(), "write output")
}

func TestUnpackRoundTrip(t *testing.T) {
	for _, doc := range []string{
		`{"asset":{"version":"2.0"},"buffers":[{"uri":"data.bin"}],"bufferViews":[{"buffer":0,"byteLength":3}]}`,
		`{"buffers":{"main":{"uri":"data.bin"}}}`,
	} {
		dir := t.TempDir()
		input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(doc))
		payload := []byte("hello")
		writeFile(t, filepath.Join(dir, "data.bin"), payload)

		packed := filepath.Join(dir, "scene.glb")
		_, err := Run(input, packed)
		require.NoError(t, err)

		output := filepath.Join(dir, "out", "copy.gltf")
		require.NoError(t, os.MkdirAll(filepath.Dir(output), 0700))

		res, err := Unpack(packed, output)
		require.NoError(t, err)
		assert.Equal(t, 5, res.ByteLength)
		assert.Equal(t, 8, res.BinLength)

		bin, err := os.ReadFile(filepath.Join(dir, "out", "copy.bin"))
		require.NoError(t, err)
		assert.Equal(t, payload, bin)

		text, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Len(t, text, res.Size)
		assert.Contains(t, string(text), `"uri":"copy.bin","byteLength":5`)

		// the unpacked pair packs to the same container again
		repacked := filepath.Join(dir, "out", "copy.glb")
		_, err = Run(output, repacked)
		require.NoError(t, err)

		want, err := os.ReadFile(packed)
		require.NoError(t, err)
		got, err := os.ReadFile(repacked)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestUnpackWithoutByteLength(t *testing.T) {
	dir := t.TempDir()
	jsonChunk := glb.Pad([]byte(`{"buffers":[{}]}`), glb.JSONPad)
	buf, err := glb.Build(jsonChunk, []byte{9, 8, 7, 6})
	require.NoError(t, err)
	input := writeFile(t, filepath.Join(dir, "in.glb"), buf)

	output := filepath.Join(dir, "out.gltf")
	res, err := Unpack(input, output)
	require.NoError(t, err)
	assert.Equal(t, 4, res.ByteLength)

	text, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, `{"buffers":[{"uri":"out.bin","byteLength":4}]}`, string(text))
}

func TestUnpackErrors(t *testing.T) {
	dir := t.TempDir()

	noBin := glb.Pad([]byte(`{"buffers":[{}]}`), glb.JSONPad)
	buf, err := glb.Build(noBin, nil)
	require.NoError(t, err)
	// drop the empty BIN chunk header
	buf = buf[:len(buf)-8]
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(buf)))
	noBinPath := writeFile(t, filepath.Join(dir, "nobin.glb"), buf)

	tooLong, err := glb.Build(glb.Pad([]byte(`{"buffers":[{"byteLength":9}]}`), glb.JSONPad), []byte{1, 2, 3, 4})
	require.NoError(t, err)
	tooLongPath := writeFile(t, filepath.Join(dir, "toolong.glb"), tooLong)

	garbagePath := writeFile(t, filepath.Join(dir, "garbage.glb"), []byte("not a container"))

	for _, input := range []string{noBinPath, tooLongPath, garbagePath} {
		_, err := Unpack(input, filepath.Join(dir, "out.gltf"))
		require.Error(t, err, input)
		assert.True(t, errors.IsFormatError(err), "%v", err)
	}

	_, err = Unpack(filepath.Join(dir, "missing.glb"), filepath.Join(dir, "out.gltf"))
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))

	_, err = Unpack(noBinPath, filepath.Join(dir, "out.bin"))
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(`{"buffers":[{"uri":"data.bin"}]}`))
	writeFile(t, filepath.Join(dir, "data.bin"), []byte{1, 2, 3, 4, 5})
	output := filepath.Join(dir, "scene.glb")
	_, err := Run(input, output)
	require.NoError(t, err)

	info, err := Inspect(output)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), info.Version)
	assert.Equal(t, uint32(80), info.Length)
	require.Len(t, info.Chunks, 2)

	assert.Equal(t, "JSON", info.Chunks[0].Type)
	assert.Equal(t, 12, info.Chunks[0].Offset)
	assert.Equal(t, 44, info.Chunks[0].Length)

	assert.Equal(t, "BIN", info.Chunks[1].Type)
	assert.Equal(t, 64, info.Chunks[1].Offset)
	assert.Equal(t, 8, info.Chunks[1].Length)
	assert.Equal(t, digest([]byte{1, 2, 3, 4, 5, 0, 0, 0}), info.Chunks[1].SHA256)
	assert.Len(t, info.Chunks[0].SHA256, 64)
}

func TestInspectAsset(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "scene.gltf"),
		[]byte(`{"asset":{"version":"2.0","generator":"glbpack test"},"buffers":[{"uri":"data.bin"}],"nodes":[{"name":"root"},{"name":"child"}]}`))
	writeFile(t, filepath.Join(dir, "data.bin"), []byte{1, 2, 3, 4})
	output := filepath.Join(dir, "scene.glb")
	_, err := Run(input, output)
	require.NoError(t, err)

	info, err := Inspect(output)
	require.NoError(t, err)
	require.NotNil(t, info.Asset)
	assert.Equal(t, Asset{Version: "2.0", Generator: "glbpack test", Buffers: 1, Nodes: 2}, *info.Asset)
}

func TestInspectMappingBuffers(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "scene.gltf"), []byte(`{"buffers":{"main":{"uri":"data.bin"}}}`))
	writeFile(t, filepath.Join(dir, "data.bin"), []byte{1, 2, 3, 4})
	output := filepath.Join(dir, "scene.glb")
	_, err := Run(input, output)
	require.NoError(t, err)

	info, err := Inspect(output)
	require.NoError(t, err)
	assert.Nil(t, info.Asset)
	assert.Len(t, info.Chunks, 2)
}
