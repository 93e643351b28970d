package mask

//go:generate protoc --go_out=../../.. --go-grpc_out=../../.. ../../api/proto/maskgen/v1/maskgen.proto

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	pb "parkwatch/api/proto/maskgen/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"parkwatch/internal/frames"
)

// GRPCProducer delegates mask production to a remote preprocessing
// service. Streams that run heavier filtering (GPU denoise, learned
// background models) point at such a service instead of the in-process
// ThresholdProducer.
type GRPCProducer struct {
	endpoint string
	streamID string
	conn     *grpc.ClientConn
	client   pb.MaskServiceClient

	healthMu   sync.RWMutex
	healthy    bool
	lastHealth time.Time

	callTimeout time.Duration
}

// GRPCProducerConfig holds configuration for the remote producer.
type GRPCProducerConfig struct {
	Endpoint    string
	StreamID    string
	CallTimeout time.Duration // per-frame deadline, default 500ms
}

// NewGRPCProducer connects to the mask service at the configured endpoint.
func NewGRPCProducer(config GRPCProducerConfig) (*GRPCProducer, error) {
	if config.CallTimeout <= 0 {
		config.CallTimeout = 500 * time.Millisecond
	}

	// Keepalive detects dead connections quickly so a worker falls back to
	// skipping updates instead of blocking on a stale socket.
	kacp := keepalive.ClientParameters{
		Time:                10 * time.Second,
		Timeout:             5 * time.Second,
		PermitWithoutStream: true,
	}

	conn, err := grpc.NewClient(config.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dial mask service: %w", err)
	}

	p := &GRPCProducer{
		endpoint:    config.Endpoint,
		streamID:    config.StreamID,
		conn:        conn,
		client:      pb.NewMaskServiceClient(conn),
		callTimeout: config.CallTimeout,
	}
	log.Printf("[MaskRPC] connected to %s", config.Endpoint)
	return p, nil
}

// Process implements Producer by calling the remote service.
func (p *GRPCProducer) Process(f *frames.Frame) (*Mask, error) {
	if f == nil {
		return nil, fmt.Errorf("mask: nil frame")
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.callTimeout)
	defer cancel()

	resp, err := p.client.ProduceMask(ctx, &pb.MaskRequest{
		StreamId:   p.streamID,
		FrameSeq:   f.Seq,
		Width:      int32(f.Width),
		Height:     int32(f.Height),
		GrayPixels: f.Pix,
	})
	if err != nil {
		return nil, fmt.Errorf("mask service: %w", err)
	}
	if int(resp.Width) != f.Width || int(resp.Height) != f.Height {
		return nil, fmt.Errorf("mask service: dimension mismatch %dx%d != %dx%d",
			resp.Width, resp.Height, f.Width, f.Height)
	}
	return &Mask{Width: f.Width, Height: f.Height, Pix: resp.Mask}, nil
}

// IsHealthy checks service availability, caching a positive result for 30s.
func (p *GRPCProducer) IsHealthy() bool {
	p.healthMu.RLock()
	if time.Since(p.lastHealth) < 30*time.Second && p.healthy {
		p.healthMu.RUnlock()
		return true
	}
	p.healthMu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := p.client.HealthCheck(ctx, &pb.HealthRequest{})

	p.healthMu.Lock()
	defer p.healthMu.Unlock()
	if err != nil {
		p.healthy = false
		return false
	}
	p.healthy = resp.Status == "healthy" && resp.FilterReady
	p.lastHealth = time.Now()
	return p.healthy
}

// Close tears down the connection.
func (p *GRPCProducer) Close() error {
	return p.conn.Close()
}
