package grpc

// proto.go defines the gRPC server interface derived from lms/loan/v1/loan.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/harshitrathi14/LOS-LMS-sub001/api/gen/go/lms/loan/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoanServiceServer is the server API for LoanService.
// It mirrors the proto-generated interface from lms.loan.v1.LoanService.
type LoanServiceServer interface {
	DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error)
	GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error)
	MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error)
	ReversePayment(context.Context, *ReversePaymentRequest) (*ReversePaymentResponse, error)
	RecordBenchmarkRate(context.Context, *RecordBenchmarkRateRequest) (*RecordBenchmarkRateResponse, error)
	ApplyRateReset(context.Context, *ApplyRateResetRequest) (*ApplyRateResetResponse, error)
	RegenerateSchedule(context.Context, *RegenerateScheduleRequest) (*RegenerateScheduleResponse, error)
	SnapshotDelinquency(context.Context, *SnapshotDelinquencyRequest) (*SnapshotDelinquencyResponse, error)
	RunEndOfDay(context.Context, *RunEndOfDayRequest) (*RunEndOfDayResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DisburseLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSchedule not implemented")
}
func (UnimplementedLoanServiceServer) MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakePayment not implemented")
}
func (UnimplementedLoanServiceServer) ReversePayment(context.Context, *ReversePaymentRequest) (*ReversePaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReversePayment not implemented")
}
func (UnimplementedLoanServiceServer) RecordBenchmarkRate(context.Context, *RecordBenchmarkRateRequest) (*RecordBenchmarkRateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordBenchmarkRate not implemented")
}
func (UnimplementedLoanServiceServer) ApplyRateReset(context.Context, *ApplyRateResetRequest) (*ApplyRateResetResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyRateReset not implemented")
}
func (UnimplementedLoanServiceServer) RegenerateSchedule(context.Context, *RegenerateScheduleRequest) (*RegenerateScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegenerateSchedule not implemented")
}
func (UnimplementedLoanServiceServer) SnapshotDelinquency(context.Context, *SnapshotDelinquencyRequest) (*SnapshotDelinquencyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SnapshotDelinquency not implemented")
}
func (UnimplementedLoanServiceServer) RunEndOfDay(context.Context, *RunEndOfDayRequest) (*RunEndOfDayResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunEndOfDay not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers the LoanServiceServer with the gRPC server.
func RegisterLoanServiceServer(s *grpclib.Server, srv LoanServiceServer) {
	s.RegisterService(&_LoanService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "lms.loan.v1.LoanService",
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "DisburseLoan", Handler: _LoanService_DisburseLoan_Handler},               //nolint:revive // gRPC handler registration
		{MethodName: "GetLoan", Handler: _LoanService_GetLoan_Handler},                         //nolint:revive // gRPC handler registration
		{MethodName: "GetSchedule", Handler: _LoanService_GetSchedule_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "MakePayment", Handler: _LoanService_MakePayment_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "ReversePayment", Handler: _LoanService_ReversePayment_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "RecordBenchmarkRate", Handler: _LoanService_RecordBenchmarkRate_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "ApplyRateReset", Handler: _LoanService_ApplyRateReset_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "RegenerateSchedule", Handler: _LoanService_RegenerateSchedule_Handler},   //nolint:revive // gRPC handler registration
		{MethodName: "SnapshotDelinquency", Handler: _LoanService_SnapshotDelinquency_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "RunEndOfDay", Handler: _LoanService_RunEndOfDay_Handler},                 //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_DisburseLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(DisburseLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).DisburseLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/DisburseLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).DisburseLoan(ctx, req.(*DisburseLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/GetLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetLoan(ctx, req.(*GetLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/GetSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetSchedule(ctx, req.(*GetScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_MakePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(MakePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).MakePayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/MakePayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).MakePayment(ctx, req.(*MakePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ReversePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReversePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ReversePayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/ReversePayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ReversePayment(ctx, req.(*ReversePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_RecordBenchmarkRate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RecordBenchmarkRateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).RecordBenchmarkRate(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/RecordBenchmarkRate",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).RecordBenchmarkRate(ctx, req.(*RecordBenchmarkRateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ApplyRateReset_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyRateResetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ApplyRateReset(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/ApplyRateReset",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ApplyRateReset(ctx, req.(*ApplyRateResetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_RegenerateSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegenerateScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).RegenerateSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/RegenerateSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).RegenerateSchedule(ctx, req.(*RegenerateScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_SnapshotDelinquency_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(SnapshotDelinquencyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).SnapshotDelinquency(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/SnapshotDelinquency",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).SnapshotDelinquency(ctx, req.(*SnapshotDelinquencyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_RunEndOfDay_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RunEndOfDayRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).RunEndOfDay(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lms.loan.v1.LoanService/RunEndOfDay",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).RunEndOfDay(ctx, req.(*RunEndOfDayRequest))
	}
	return interceptor(ctx, in, info, handler)
}
