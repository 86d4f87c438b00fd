// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/condensit/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalNode serializes a HierarchyNode to bytes.
func MarshalNode(node *core.HierarchyNode) []byte {
	buf := make([]byte, core.HierarchyNodeMUS.Size(*node))
	core.HierarchyNodeMUS.Marshal(*node, buf)
	return buf
}

// UnmarshalNode deserializes a HierarchyNode from bytes.
func UnmarshalNode(data []byte) (*core.HierarchyNode, error) {
	node, _, err := core.HierarchyNodeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// MarshalRunStatus serializes a RunStatus to bytes.
func MarshalRunStatus(status *core.RunStatus) []byte {
	buf := make([]byte, core.RunStatusMUS.Size(*status))
	core.RunStatusMUS.Marshal(*status, buf)
	return buf
}

// UnmarshalRunStatus deserializes a RunStatus from bytes.
func UnmarshalRunStatus(data []byte) (*core.RunStatus, error) {
	status, _, err := core.RunStatusMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
