// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.11
// 	protoc        (unknown)
// source: maskgen/v1/maskgen.proto

package v1

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type MaskRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	StreamId      string                 `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3" json:"stream_id,omitempty"`
	FrameSeq      uint64                 `protobuf:"varint,2,opt,name=frame_seq,json=frameSeq,proto3" json:"frame_seq,omitempty"`
	Width         int32                  `protobuf:"varint,3,opt,name=width,proto3" json:"width,omitempty"`
	Height        int32                  `protobuf:"varint,4,opt,name=height,proto3" json:"height,omitempty"`
	GrayPixels    []byte                 `protobuf:"bytes,5,opt,name=gray_pixels,json=grayPixels,proto3" json:"gray_pixels,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *MaskRequest) Reset() {
	*x = MaskRequest{}
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *MaskRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*MaskRequest) ProtoMessage() {}

func (x *MaskRequest) ProtoReflect() protoreflect.Message {
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use MaskRequest.ProtoReflect.Descriptor instead.
func (*MaskRequest) Descriptor() ([]byte, []int) {
	return file_maskgen_v1_maskgen_proto_rawDescGZIP(), []int{0}
}

func (x *MaskRequest) GetStreamId() string {
	if x != nil {
		return x.StreamId
	}
	return ""
}

func (x *MaskRequest) GetFrameSeq() uint64 {
	if x != nil {
		return x.FrameSeq
	}
	return 0
}

func (x *MaskRequest) GetWidth() int32 {
	if x != nil {
		return x.Width
	}
	return 0
}

func (x *MaskRequest) GetHeight() int32 {
	if x != nil {
		return x.Height
	}
	return 0
}

func (x *MaskRequest) GetGrayPixels() []byte {
	if x != nil {
		return x.GrayPixels
	}
	return nil
}

type MaskResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	FrameSeq      uint64                 `protobuf:"varint,1,opt,name=frame_seq,json=frameSeq,proto3" json:"frame_seq,omitempty"`
	Width         int32                  `protobuf:"varint,2,opt,name=width,proto3" json:"width,omitempty"`
	Height        int32                  `protobuf:"varint,3,opt,name=height,proto3" json:"height,omitempty"`
	Mask          []byte                 `protobuf:"bytes,4,opt,name=mask,proto3" json:"mask,omitempty"`
	ProcessTimeMs float32                `protobuf:"fixed32,5,opt,name=process_time_ms,json=processTimeMs,proto3" json:"process_time_ms,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *MaskResponse) Reset() {
	*x = MaskResponse{}
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *MaskResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*MaskResponse) ProtoMessage() {}

func (x *MaskResponse) ProtoReflect() protoreflect.Message {
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use MaskResponse.ProtoReflect.Descriptor instead.
func (*MaskResponse) Descriptor() ([]byte, []int) {
	return file_maskgen_v1_maskgen_proto_rawDescGZIP(), []int{1}
}

func (x *MaskResponse) GetFrameSeq() uint64 {
	if x != nil {
		return x.FrameSeq
	}
	return 0
}

func (x *MaskResponse) GetWidth() int32 {
	if x != nil {
		return x.Width
	}
	return 0
}

func (x *MaskResponse) GetHeight() int32 {
	if x != nil {
		return x.Height
	}
	return 0
}

func (x *MaskResponse) GetMask() []byte {
	if x != nil {
		return x.Mask
	}
	return nil
}

func (x *MaskResponse) GetProcessTimeMs() float32 {
	if x != nil {
		return x.ProcessTimeMs
	}
	return 0
}

type HealthRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *HealthRequest) Reset() {
	*x = HealthRequest{}
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *HealthRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*HealthRequest) ProtoMessage() {}

func (x *HealthRequest) ProtoReflect() protoreflect.Message {
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use HealthRequest.ProtoReflect.Descriptor instead.
func (*HealthRequest) Descriptor() ([]byte, []int) {
	return file_maskgen_v1_maskgen_proto_rawDescGZIP(), []int{2}
}

type HealthResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Status        string                 `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
	FilterReady   bool                   `protobuf:"varint,2,opt,name=filter_ready,json=filterReady,proto3" json:"filter_ready,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *HealthResponse) Reset() {
	*x = HealthResponse{}
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *HealthResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*HealthResponse) ProtoMessage() {}

func (x *HealthResponse) ProtoReflect() protoreflect.Message {
	mi := &file_maskgen_v1_maskgen_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use HealthResponse.ProtoReflect.Descriptor instead.
func (*HealthResponse) Descriptor() ([]byte, []int) {
	return file_maskgen_v1_maskgen_proto_rawDescGZIP(), []int{3}
}

func (x *HealthResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *HealthResponse) GetFilterReady() bool {
	if x != nil {
		return x.FilterReady
	}
	return false
}

var File_maskgen_v1_maskgen_proto protoreflect.FileDescriptor

const file_maskgen_v1_maskgen_proto_rawDesc = "" +
	"\n" +
	"\x18maskgen/v1/maskgen.proto\x12\n" +
	"maskgen.v1\"\x96\x01\n" +
	"\vMaskRequest\x12\x1b\n" +
	"\tstream_id\x18\x01 \x01(\tR\bstreamId\x12\x1b\n" +
	"\tframe_seq\x18\x02 \x01(\x04R\bframeSeq\x12\x14\n" +
	"\x05width\x18\x03 \x01(\x05R\x05width\x12\x16\n" +
	"\x06height\x18\x04 \x01(\x05R\x06height\x12\x1f\n" +
	"\vgray_pixels\x18\x05 \x01(\fR\n" +
	"grayPixels\"\x95\x01\n" +
	"\fMaskResponse\x12\x1b\n" +
	"\tframe_seq\x18\x01 \x01(\x04R\bframeSeq\x12\x14\n" +
	"\x05width\x18\x02 \x01(\x05R\x05width\x12\x16\n" +
	"\x06height\x18\x03 \x01(\x05R\x06height\x12\x12\n" +
	"\x04mask\x18\x04 \x01(\fR\x04mask\x12&\n" +
	"\x0fprocess_time_ms\x18\x05 \x01(\x02R\rprocessTimeMs\"\x0f\n" +
	"\rHealthRequest\"K\n" +
	"\x0eHealthResponse\x12\x16\n" +
	"\x06status\x18\x01 \x01(\tR\x06status\x12!\n" +
	"\ffilter_ready\x18\x02 \x01(\bR\vfilterReady2\x95\x01\n" +
	"\vMaskService\x12@\n" +
	"\vProduceMask\x12\x17.maskgen.v1.MaskRequest\x1a\x18.maskgen.v1.MaskResponse\x12D\n" +
	"\vHealthCheck\x12\x19.maskgen.v1.HealthRequest\x1a\x1a.maskgen.v1.HealthResponseB Z\x1eparkwatch/api/proto/maskgen/v1b\x06proto3"

var (
	file_maskgen_v1_maskgen_proto_rawDescOnce sync.Once
	file_maskgen_v1_maskgen_proto_rawDescData []byte
)

func file_maskgen_v1_maskgen_proto_rawDescGZIP() []byte {
	file_maskgen_v1_maskgen_proto_rawDescOnce.Do(func() {
		file_maskgen_v1_maskgen_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_maskgen_v1_maskgen_proto_rawDesc), len(file_maskgen_v1_maskgen_proto_rawDesc)))
	})
	return file_maskgen_v1_maskgen_proto_rawDescData
}

var file_maskgen_v1_maskgen_proto_msgTypes = make([]protoimpl.MessageInfo, 4)
var file_maskgen_v1_maskgen_proto_goTypes = []any{
	(*MaskRequest)(nil),    // 0: maskgen.v1.MaskRequest
	(*MaskResponse)(nil),   // 1: maskgen.v1.MaskResponse
	(*HealthRequest)(nil),  // 2: maskgen.v1.HealthRequest
	(*HealthResponse)(nil), // 3: maskgen.v1.HealthResponse
}
var file_maskgen_v1_maskgen_proto_depIdxs = []int32{
	0, // 0: maskgen.v1.MaskService.ProduceMask:input_type -> maskgen.v1.MaskRequest
	2, // 1: maskgen.v1.MaskService.HealthCheck:input_type -> maskgen.v1.HealthRequest
	1, // 2: maskgen.v1.MaskService.ProduceMask:output_type -> maskgen.v1.MaskResponse
	3, // 3: maskgen.v1.MaskService.HealthCheck:output_type -> maskgen.v1.HealthResponse
	2, // [2:4] is the sub-list for method output_type
	0, // [0:2] is the sub-list for method input_type
	0, // [0:0] is the sub-list for extension type_name
	0, // [0:0] is the sub-list for extension extendee
	0, // [0:0] is the sub-list for field type_name
}

func init() { file_maskgen_v1_maskgen_proto_init() }
func file_maskgen_v1_maskgen_proto_init() {
	if File_maskgen_v1_maskgen_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_maskgen_v1_maskgen_proto_rawDesc), len(file_maskgen_v1_maskgen_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   4,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_maskgen_v1_maskgen_proto_goTypes,
		DependencyIndexes: file_maskgen_v1_maskgen_proto_depIdxs,
		MessageInfos:      file_maskgen_v1_maskgen_proto_msgTypes,
	}.Build()
	File_maskgen_v1_maskgen_proto = out.File
	file_maskgen_v1_maskgen_proto_goTypes = nil
	file_maskgen_v1_maskgen_proto_depIdxs = nil
}
