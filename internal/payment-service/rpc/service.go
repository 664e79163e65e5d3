package paymentrpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName             = "payment.v1.Payment"
	createPaymentFullMethod = "/" + ServiceName + "/CreatePayment"
	getPaymentFullMethod    = "/" + ServiceName + "/GetPayment"
)

type PaymentServer interface {
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentReply, error)
	GetPayment(ctx context.Context, req *GetPaymentRequest) (*PaymentReply, error)
}

type PaymentClient interface {
	CreatePayment(ctx context.Context, req *CreatePaymentRequest, opts ...grpc.CallOption) (*PaymentReply, error)
	GetPayment(ctx context.Context, req *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentReply, error)
}

func RegisterPaymentServer(s grpc.ServiceRegistrar, srv PaymentServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreatePayment", Handler: createPaymentHandler},
		{MethodName: "GetPayment", Handler: getPaymentHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payment/v1/payment.go",
}

func createPaymentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreatePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).CreatePayment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createPaymentFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).CreatePayment(ctx, req.(*CreatePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getPaymentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).GetPayment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getPaymentFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).GetPayment(ctx, req.(*GetPaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type paymentClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentClient(cc grpc.ClientConnInterface) PaymentClient {
	return &paymentClient{cc: cc}
}

func (c *paymentClient) CreatePayment(ctx context.Context, req *CreatePaymentRequest, opts ...grpc.CallOption) (*PaymentReply, error) {
	out := new(PaymentReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, createPaymentFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) GetPayment(ctx context.Context, req *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentReply, error) {
	out := new(PaymentReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, getPaymentFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
