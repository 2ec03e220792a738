package pickerhost

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/aradsms/contacts_services/internal/picker_service/domain"
)

const serviceName = "contacts.picker.v1.PickerHost"

const (
	methodStartContactsPicker          = "StartContactsPicker"
	methodStartSaveContactsPicker      = "StartSaveContactsPicker"
	methodStartSaveExistContactsPicker = "StartSaveExistContactsPicker"
)

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// PickerHostServer is served by the ability that renders the picker pages.
// Requests are {"context": CallerContext, "config": InvocationConfig}; responses carry the PickerResult fields.
type PickerHostServer interface {
	StartContactsPicker(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StartSaveContactsPicker(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StartSaveExistContactsPicker(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type pickerCall func(srv PickerHostServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call pickerCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PickerHostServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PickerHostServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PickerHostServiceDesc describes the picker host service for grpc.Server registration.
var PickerHostServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PickerHostServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: methodStartContactsPicker,
			Handler: unaryHandler(methodStartContactsPicker, func(srv PickerHostServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.StartContactsPicker(ctx, req)
			}),
		},
		{
			MethodName: methodStartSaveContactsPicker,
			Handler: unaryHandler(methodStartSaveContactsPicker, func(srv PickerHostServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.StartSaveContactsPicker(ctx, req)
			}),
		},
		{
			MethodName: methodStartSaveExistContactsPicker,
			Handler: unaryHandler(methodStartSaveExistContactsPicker, func(srv PickerHostServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.StartSaveExistContactsPicker(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contacts/picker/v1/picker_host.proto",
}

// RegisterPickerHostServer registers srv with s.
func RegisterPickerHostServer(s grpc.ServiceRegistrar, srv PickerHostServer) {
	s.RegisterService(&PickerHostServiceDesc, srv)
}

// --- Payload codec ---

type request struct {
	Context domain.CallerContext     `json:"context"`
	Config  *domain.InvocationConfig `json:"config"`
}

// EncodeRequest packs a caller and config into the wire struct.
func EncodeRequest(caller domain.CallerContext, cfg *domain.InvocationConfig) (*structpb.Struct, error) {
	return toStruct(request{Context: caller, Config: cfg})
}

// DecodeRequest is the host-side inverse of EncodeRequest.
func DecodeRequest(req *structpb.Struct) (domain.CallerContext, *domain.InvocationConfig, error) {
	var r request
	if err := fromStruct(req, &r); err != nil {
		return domain.CallerContext{}, nil, err
	}
	if r.Config == nil {
		return r.Context, nil, fmt.Errorf("picker request has no config")
	}
	return r.Context, r.Config, nil
}

// EncodeResult packs a host answer into the wire struct.
func EncodeResult(result *domain.PickerResult) (*structpb.Struct, error) {
	return toStruct(result)
}

// DecodeResult unpacks a host answer. An empty struct has resultCode 0.
func DecodeResult(resp *structpb.Struct) (*domain.PickerResult, error) {
	var result domain.PickerResult
	if err := fromStruct(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal picker payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("picker payload is not an object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build picker struct: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("marshal picker struct: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode picker payload: %w", err)
	}
	return nil
}
