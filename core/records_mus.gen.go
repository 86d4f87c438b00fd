// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapTU43WsD2H7T7VmQKlmyd1gΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	slicemvLdOCnPSM316xgnfXol1wΞΞ = ord.NewSliceSer[ID](IDMUS)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var DocumentTypeMUS = documentTypeMUS{}

type documentTypeMUS struct{}

func (s documentTypeMUS) Marshal(v DocumentType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s documentTypeMUS) Unmarshal(bs []byte) (v DocumentType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = DocumentType(tmp)
	return
}

func (s documentTypeMUS) Size(v DocumentType) (size int) {
	return varint.Int.Size(int(v))
}

func (s documentTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var RunStateMUS = runStateMUS{}

type runStateMUS struct{}

func (s runStateMUS) Marshal(v RunState, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s runStateMUS) Unmarshal(bs []byte) (v RunState, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = RunState(tmp)
	return
}

func (s runStateMUS) Size(v RunState) (size int) {
	return varint.Int.Size(int(v))
}

func (s runStateMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var HierarchyNodeMUS = hierarchyNodeMUS{}

type hierarchyNodeMUS struct{}

func (s hierarchyNodeMUS) Marshal(v HierarchyNode, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.BatchId, bs[n:])
	n += varint.Int.Marshal(v.Level, bs[n:])
	n += DocumentTypeMUS.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += varint.Int.Marshal(v.TokenCount, bs[n:])
	n += IDMUS.Marshal(v.ParentId, bs[n:])
	n += slicemvLdOCnPSM316xgnfXol1wΞΞ.Marshal(v.ChildIds, bs[n:])
	n += slicemvLdOCnPSM316xgnfXol1wΞΞ.Marshal(v.SourceDocumentIds, bs[n:])
	n += mapTU43WsD2H7T7VmQKlmyd1gΞΞ.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s hierarchyNodeMUS) Unmarshal(bs []byte) (v HierarchyNode, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.BatchId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Level, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = DocumentTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokenCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ParentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChildIds, n1, err = slicemvLdOCnPSM316xgnfXol1wΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceDocumentIds, n1, err = slicemvLdOCnPSM316xgnfXol1wΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapTU43WsD2H7T7VmQKlmyd1gΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s hierarchyNodeMUS) Size(v HierarchyNode) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.BatchId)
	size += varint.Int.Size(v.Level)
	size += DocumentTypeMUS.Size(v.Type)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.Summary)
	size += varint.Int.Size(v.TokenCount)
	size += IDMUS.Size(v.ParentId)
	size += slicemvLdOCnPSM316xgnfXol1wΞΞ.Size(v.ChildIds)
	size += slicemvLdOCnPSM316xgnfXol1wΞΞ.Size(v.SourceDocumentIds)
	size += mapTU43WsD2H7T7VmQKlmyd1gΞΞ.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s hierarchyNodeMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DocumentTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicemvLdOCnPSM316xgnfXol1wΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicemvLdOCnPSM316xgnfXol1wΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapTU43WsD2H7T7VmQKlmyd1gΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var RunStatusMUS = runStatusMUS{}

type runStatusMUS struct{}

func (s runStatusMUS) Marshal(v RunStatus, bs []byte) (n int) {
	n = ord.String.Marshal(v.BatchId, bs)
	n += varint.Int.Marshal(v.CurrentLevel, bs[n:])
	n += varint.Int.Marshal(v.TotalDocuments, bs[n:])
	n += varint.Int.Marshal(v.ProcessedDocuments, bs[n:])
	n += RunStateMUS.Marshal(v.State, bs[n:])
	n += ord.String.Marshal(v.ErrorMessage, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.StartedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CompletedAt, bs[n:])
}

func (s runStatusMUS) Unmarshal(bs []byte) (v RunStatus, n int, err error) {
	v.BatchId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.CurrentLevel, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TotalDocuments, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProcessedDocuments, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.State, n1, err = RunStateMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CompletedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s runStatusMUS) Size(v RunStatus) (size int) {
	size = ord.String.Size(v.BatchId)
	size += varint.Int.Size(v.CurrentLevel)
	size += varint.Int.Size(v.TotalDocuments)
	size += varint.Int.Size(v.ProcessedDocuments)
	size += RunStateMUS.Size(v.State)
	size += ord.String.Size(v.ErrorMessage)
	size += raw.TimeUnixMicro.Size(v.StartedAt)
	return size + raw.TimeUnixMicro.Size(v.CompletedAt)
}

func (s runStatusMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = RunStateMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
