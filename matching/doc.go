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

// Package matching assigns meetings to projects by lexical similarity.
//
// A Matcher is built once per matching session from project profiles (see
// LoadProfiles) and scores each meeting on three weighted components: the
// meeting title against the project title, the participant list against the
// project team, and the transcript text against the project keywords. The
// keyword patterns are compiled at construction so per-meeting scoring does
// no regexp work.
//
// DetermineAssignment maps a match confidence onto one of three bands:
// assign, assign with a review flag, or leave unassigned.
//
// Usage:
//
//	profiles, err := matching.LoadProfiles(ctx, stores.Projects)
//	if err != nil {
//		return err
//	}
//	matcher := matching.NewMatcher(profiles)
//	match := matcher.Match(meeting, transcriptText)
//	assignment := matching.DetermineAssignment(match)
package matching
