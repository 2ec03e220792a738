package pickerhost

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/aradsms/contacts_services/internal/picker_service/domain"
)

// Client calls the picker host ability over gRPC. It implements domain.PickerCapability.
type Client struct {
	conn   *grpc.ClientConn
	logger *slog.Logger
}

var _ domain.PickerCapability = (*Client)(nil)

// NewClient connects to the picker host at target. Extra dial options are appended
// after the default insecure transport credentials.
func NewClient(target string, logger *slog.Logger, opts ...grpc.DialOption) (*Client, error) {
	if target == "" {
		return nil, fmt.Errorf("picker host grpc target address is required")
	}
	logger = logger.With("client", "picker_host")

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.Dial(target, dialOpts...)
	if err != nil {
		logger.Error("Failed to connect to picker host", "target", target, "error", err)
		return nil, fmt.Errorf("failed to connect to picker host at %s: %w", target, err)
	}
	logger.Info("Connected to picker host via gRPC", "target", target)
	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) StartContactsPicker(ctx context.Context, caller domain.CallerContext, cfg *domain.InvocationConfig) (*domain.PickerResult, error) {
	return c.invoke(ctx, methodStartContactsPicker, caller, cfg)
}

func (c *Client) StartSaveContactsPicker(ctx context.Context, caller domain.CallerContext, cfg *domain.InvocationConfig) (*domain.PickerResult, error) {
	return c.invoke(ctx, methodStartSaveContactsPicker, caller, cfg)
}

func (c *Client) StartSaveExistContactsPicker(ctx context.Context, caller domain.CallerContext, cfg *domain.InvocationConfig) (*domain.PickerResult, error) {
	return c.invoke(ctx, methodStartSaveExistContactsPicker, caller, cfg)
}

func (c *Client) invoke(ctx context.Context, method string, caller domain.CallerContext, cfg *domain.InvocationConfig) (*domain.PickerResult, error) {
	if caller.IsZero() {
		return nil, domain.ErrMissingCallerContext
	}
	req, err := EncodeRequest(caller, cfg)
	if err != nil {
		return nil, err
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		c.logger.ErrorContext(ctx, "Picker host RPC failed", "method", method,
			"code", status.Code(err).String(), "error", err)
		return nil, fmt.Errorf("picker host %s: %w", method, err)
	}
	if len(resp.GetFields()) == 0 {
		// host answered without a result
		return nil, nil
	}
	return DecodeResult(resp)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.logger.Info("Closing picker host gRPC client connection")
	return c.conn.Close()
}
