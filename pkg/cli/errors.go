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

package cli

import "errors"

var (
	errEmptyPassword  = errors.New("password cannot be empty")
	errInvalidCost    = errors.New("cost must be between 4 and 31")
	errUnknownFormat  = errors.New("format must be csv or pdf")
	errDeviceNotFound = errors.New("device not found")
	errNoHost         = errors.New("--host is required")
	errNoDevice       = errors.New("--device is required")
)
