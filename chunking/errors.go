// Copyright 2025 Alleato Group
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


package chunking

import "errors"

var (
	// ErrInvalidConfig indicates a chunker configuration failed validation.
	ErrInvalidConfig = errors.New("invalid chunking config")

	// ErrUnknownMethod indicates an unrecognized chunking method.
	ErrUnknownMethod = errors.New("unknown chunking method")

	// ErrUnknownPreset indicates an unrecognized chunking preset name.
	ErrUnknownPreset = errors.New("unknown chunking preset")
)
