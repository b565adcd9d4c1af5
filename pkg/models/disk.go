/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "fmt"

// Disk is one storage device reported inside a device record.
type Disk struct {
	Device string `json:"device"`
	Model  string `json:"model"`
	Size   string `json:"size"`
}

// DiskFromRecord reads a disk out of a nested record. Missing fields are empty.
func DiskFromRecord(r *DeviceRecord) Disk {
	return Disk{
		Device: r.String("device"),
		Model:  r.String("model"),
		Size:   r.String("size"),
	}
}

// Label is the flattened form used by both export formats.
func (d Disk) Label() string {
	return fmt.Sprintf("%s:%s:%sx", d.Device, d.Model, d.Size)
}

// Record converts the disk back into a nested device record.
func (d Disk) Record() *DeviceRecord {
	return NewDeviceRecord(
		Field{Key: "device", Value: d.Device},
		Field{Key: "model", Value: d.Model},
		Field{Key: "size", Value: d.Size},
	)
}
