// Copyright 2025-2026 The Nurse Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package source tracks the source files that diagnostics point into.

A [Registry] owns immutable copies of registered texts and hands out opaque
[FileID] handles for them. A [Span] is a half-open byte range within a
registered file; it carries only the handle and two offsets, so spans stay
cheap to copy and never pin the registry's storage. Resolution back to
user-visible line and column coordinates happens lazily, through
[Registry.Resolve] or [File.Location].

Columns can be measured in several [LengthUnit]s. Terminal rendering uses
[TermWidth], which expands tabs to the next tabstop and counts grapheme
clusters at their display width; protocol adapters typically want
[UTF16Length] instead.

The registry performs no internal locking. Register calls must be serialized
by the caller; resolution against already-registered files is read-only and
safe to share.
*/
package source
