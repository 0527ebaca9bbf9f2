// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by
the engine and the HTTP surface.

Domain types mirror the stored records one-to-one: Poll, OptionNode,
VoterLedger, Receipt, Event. Counters use the narrow unsigned types the
engine enforces (credits and usage fit uint8, indices uint16, tallies
uint32); timestamps are unix seconds.
*/
package models
