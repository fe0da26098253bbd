// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

/*
Package edge implements adaptive client-side routing of map-tile requests
across geographically distributed content edges.

# Overview

A Client holds three pieces of routing state:
  - the routing config (edge catalog) from the last successful topology lookup
  - the current edge, i.e. the edge most recently chosen for tile traffic
  - the failover stack, the ordered list of edges tried for every tile

The stack is mutated in four ways:
  - Initialize resets it to [primary, fallback]
  - GetTile moves an edge to the front when it served a tile after earlier edges failed
  - the health monitor replaces it with healthy edges sorted by distance
  - OptimizeRouting replaces it with reachable edges sorted by measured latency

Replacements are wholesale and last-write-wins. A tile request walks a
snapshot of the stack taken when it started.

# Failure Handling

  - Topology lookup failure: Initialize returns a static default config and
    changes nothing
  - Tile fetch failure: GetTile tries the next edge; ErrTileFetchExhausted
    once all have failed
  - Health or latency probe failure: logged, routing unchanged
  - Replication or health report failure: returned to the caller

# Example

	client := edge.NewClient(selectorClient, edge.OptionsFromConfig(&cfg.Routing))
	defer client.Destroy()

	client.Initialize(ctx, 52.52, 13.40)
	png, err := client.GetTile(ctx, 12, 2200, 1343, "osm")
*/
package edge
