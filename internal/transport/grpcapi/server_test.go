package grpcapi

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/xtding233/prizewheel/internal/engine"
)

type fakeWheel struct {
	spinErr error
	mode    int
	flushed int
}

func (f *fakeWheel) Spin(context.Context) (engine.Outcome, error) {
	if f.spinErr != nil {
		return engine.Outcome{}, f.spinErr
	}
	return engine.Outcome{SpinID: "abc", Date: "2025-01-01", Index: 2, PrizeID: "MUG", PrizeName: "Mug", Category: "Medium", Reason: engine.ReasonPacing, Probability: 0.4}, nil
}

func (f *fakeWheel) Status() engine.Status {
	return engine.Status{Date: "2025-01-01", Mode: f.mode, Phase: engine.Idle.String(), DailyGoal: 12,
		Prizes: []engine.PrizeStatus{{ID: "MUG", Remaining: 3}}}
}

func (f *fakeWheel) SetMode(m int) error {
	if m < 1 || m > 3 {
		return engine.ErrInvalidMode
	}
	f.mode = m
	return nil
}

func (f *fakeWheel) Flush(context.Context) { f.flushed++ }

func dial(t *testing.T, w Wheel) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := NewGRPCServer(w, nil)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestSpinAndStatus(t *testing.T) {
	w := &fakeWheel{mode: 3}
	c := dial(t, w)
	ctx := context.Background()

	out, err := c.Spin(ctx)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	m := out.AsMap()
	if m["prize_id"] != "MUG" || m["index"] != float64(2) || m["filler"] != false {
		t.Fatalf("spin payload = %v", m)
	}

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	sm := st.AsMap()
	if sm["daily_goal"] != float64(12) || sm["phase"] != "idle" {
		t.Fatalf("status payload = %v", sm)
	}
	prizes, ok := sm["prizes"].([]any)
	if !ok || len(prizes) != 1 {
		t.Fatalf("prizes = %v", sm["prizes"])
	}
}

func TestSetModeAndFlush(t *testing.T) {
	w := &fakeWheel{mode: 3}
	c := dial(t, w)
	ctx := context.Background()

	if err := c.SetMode(ctx, 1); err != nil || w.mode != 1 {
		t.Fatalf("set mode: %v (mode=%d)", err, w.mode)
	}
	err := c.SetMode(ctx, 5)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
	if err := c.Flush(ctx); err != nil || w.flushed != 1 {
		t.Fatalf("flush: %v (flushed=%d)", err, w.flushed)
	}
}

func TestSpinErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{engine.ErrBusy, codes.Unavailable},
		{engine.ErrNoStock, codes.FailedPrecondition},
		{engine.ErrNoCandidate, codes.FailedPrecondition},
	}
	for _, tc := range cases {
		c := dial(t, &fakeWheel{spinErr: tc.err})
		_, err := c.Spin(context.Background())
		if status.Code(err) != tc.want {
			t.Fatalf("%v: got %v want %v", tc.err, status.Code(err), tc.want)
		}
	}
}
