package printer_test

import (
	"bytes"
	"testing"

	"github.com/mabhi256/hprofdump/internal/consumers/printer"
	"github.com/mabhi256/hprofdump/internal/hprof"
	"github.com/stretchr/testify/require"
)

func TestPrinterWritesHeaderAndHeapSummary(t *testing.T) {
	var out bytes.Buffer
	p := printer.New(&out)

	require.NoError(t, p.OnHeader(&hprof.Header{Format: "JAVA PROFILE 1.0.2", IdentifierSize: 8}))
	require.NoError(t, p.OnHeapSummary(&hprof.HeapSummaryRecord{LiveBytes: 1024, LiveInstances: 3}))

	s := out.String()
	require.Contains(t, s, "HPROF JAVA PROFILE 1.0.2")
	require.Contains(t, s, "1024")
}

func TestPrinterResolvesClassName(t *testing.T) {
	var out bytes.Buffer
	p := printer.New(&out)

	require.NoError(t, p.OnUTF8String(&hprof.UTF8Record{StringID: 1, Text: "com/example/Foo"}))
	require.NoError(t, p.OnLoadClass(&hprof.LoadClassRecord{ClassSerialNumber: 1, ClassObjectID: 2, ClassNameID: 1}))

	require.Contains(t, out.String(), "com/example/Foo")
}
