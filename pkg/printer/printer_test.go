package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValueAndItemLine(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Total", "P76.00")
	d.ItemLine(2, "Caramel Macchiato Grande", "P240.00")

	out := d.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
	assert.Contains(t, string(out), "Total"+strings.Repeat(" ", 9)+"P76.00\n")
	assert.Contains(t, string(out), "2x Caramel M P240.00\n")
}

func TestDocument_Wrapped(t *testing.T) {
	d := NewDocument(16)
	d.Wrapped("  ", "less ice please and extra hot")

	assert.Contains(t, string(d.Bytes()), "  less ice\n  please and\n  extra hot\n")
}

func TestNew(t *testing.T) {
	p, err := New("", "", "")
	require.NoError(t, err)
	assert.Equal(t, Status{Type: "none", Connected: false}, Describe(p))

	_, err = New("usb", "", "")
	assert.Error(t, err)

	_, err = New("laser", "", "")
	assert.Error(t, err)
}

func TestUSBPrinter_WritesToDeviceFile(t *testing.T) {
	dev := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(dev, nil, 0o600))

	p := NewUSBPrinter(dev)
	require.True(t, p.IsConnected())
	require.NoError(t, p.Print(context.Background(), []byte("hello")))

	got, err := os.ReadFile(dev)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestNetworkPrinter_SendsBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		received <- b
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte{ESC, '@', 'x'}))
	assert.Equal(t, []byte{ESC, '@', 'x'}, <-received)
}
