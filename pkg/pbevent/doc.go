// Package pbevent implements the EPICS Archiver Appliance event wire
// schema (EPICSEvent.proto) with hand-written protowire marshalling.
//
// The appliance defines one protobuf message per payload type. All of
// them share the same field numbering:
//
//	secondsintoyear  = 1  (uint32)
//	nano             = 2  (uint32)
//	val              = 3  (type-dependent)
//	severity         = 4  (int32, optional, default 0)
//	status           = 5  (int32, optional, default 0)
//	repeatcount      = 6  (uint32, optional)
//	fieldvalues      = 7  (repeated FieldValue)
//	fieldactualchange = 8 (bool, optional)
//
// Because only the val field differs between message types, this
// package represents all of them with a single Event struct whose
// marshalling is driven by a PayloadType. Short, enum and int values
// use sint32 (zigzag) encoding; float and double use fixed32/fixed64;
// string and byte payloads are length-delimited. Repeated numeric
// values are written unpacked, matching the appliance's proto2
// writer, and both packed and unpacked forms are accepted on parse.
package pbevent
