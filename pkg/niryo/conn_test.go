package niryo_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibarobotics/niryodraw/pkg/niryo"
	"github.com/polibarobotics/niryodraw/pkg/niryo/niryotest"
)

func dial(t *testing.T, srv *niryotest.Server) *niryo.Conn {
	t.Helper()
	conn, err := niryo.Dial(context.Background(), srv.Host(), srv.Port(), niryo.Options{
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_Call(t *testing.T) {
	srv := niryotest.NewServer(t, func(req *niryo.Request) *niryo.Response {
		if req.Command == "NEED_CALIBRATION" {
			return niryotest.OK(true)
		}
		return nil
	})
	conn := dial(t, srv)

	resp, err := conn.Call(context.Background(), "NEED_CALIBRATION")
	require.NoError(t, err)

	var need bool
	require.NoError(t, resp.Decode(0, &need))
	assert.True(t, need)

	_, err = conn.Call(context.Background(), "CALIBRATE", "AUTO")
	require.NoError(t, err)

	assert.Equal(t, []string{"NEED_CALIBRATION", "CALIBRATE"}, srv.Commands())
}

func TestConn_CallKO(t *testing.T) {
	srv := niryotest.NewServer(t, func(req *niryo.Request) *niryo.Response {
		return niryotest.KO("pose unreachable")
	})
	conn := dial(t, srv)

	resp, err := conn.Call(context.Background(), "MOVE_POSE", 1, 1, 1, 0, 0, 0)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, niryo.StatusKO, resp.Status)

	var cmdErr *niryo.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "pose unreachable", cmdErr.Message)
}

func TestConn_CallCancelled(t *testing.T) {
	// Accepts the connection but never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	conn, err := niryo.Dial(context.Background(), "127.0.0.1", addr.Port, niryo.Options{})
	require.NoError(t, err)
	defer conn.Close()

	peer := <-accepted
	defer peer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = conn.Call(ctx, "CALIBRATE", "AUTO")
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestConn_CallAlreadyCancelledSendsNothing(t *testing.T) {
	srv := niryotest.NewServer(t, nil)
	conn := dial(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 50; i++ {
		_, err := conn.Call(ctx, "MOVE_POSE", 0.25, 0.1, 0.14, 0, 0.5, 0)
		require.ErrorIs(t, err, context.Canceled)
	}

	// The controller answers in order, so once this call returns every
	// earlier request would have been recorded.
	_, err := conn.Call(context.Background(), "GET_POSE")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET_POSE"}, srv.Commands())
}

func TestConn_Closed(t *testing.T) {
	srv := niryotest.NewServer(t, nil)
	conn := dial(t, srv)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	_, err := conn.Call(context.Background(), "GET_POSE")
	assert.ErrorIs(t, err, niryo.ErrClosed)
}

func TestDial_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = niryo.Dial(context.Background(), "127.0.0.1", port, niryo.Options{ConnectTimeout: time.Second})
	assert.Error(t, err)
}
