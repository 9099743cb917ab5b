// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package candidates turns a group's dietary profiles into a restaurant query
and supplies swipe cards.

# Filter

Build is a pure function of the participants' profiles and the caller's
swiped restaurant ids:

  - any participant's allergy excludes restaurants offering that tag
  - a dietary preference shared by every participant is required
  - any participant's disliked cuisine is excluded
  - restaurants the caller already swiped are excluded

Tags and cuisines compare case-insensitively.

# Selection

Selector.Select asks a Source for one page. If the filtered query is empty
or fails it asks again without a filter, and if that fails too it serves a
static default list, so the matching phase always has cards.
*/
package candidates
