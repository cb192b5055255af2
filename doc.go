// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nest is the overall repository for the connection / synapse engine
of a discrete-step spiking network simulator, implemented in the Go
language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* simtime: the discrete simulation clock -- step counter, resolution
(msec per step) and delay quantization.

* history: the block-allocated spike-history container with random-access
cursors, used by target nodes to archive bounded-lifetime spike records.

* archive: per-target spike archiving -- decaying post-synaptic traces,
windowed history queries, and pruning of records no incoming connection
can still need.

* synapse: the core directed-edge representation -- compact packed
delay / model-tag / flags encoding, spike events, wiring-time checks,
and the error taxonomy shared by all plasticity models.

* status: heterogeneous parameter maps with access auditing, so that a
set-status round trip can report keys that were never consumed.

* stdp: spike-timing-dependent plasticity models -- pairwise with
pluggable weight-update rules, homogeneous power-law, triplet
(Pfister-Gerstner), and the symmetric Vogels-Sprekeler rule.

* stp: short-term plasticity (Tsodyks-Markram facilitation / depression
pool model), in both documented transmission sub-variants.

* eprop: eligibility-propagation connections with batched gradient
accumulation and pluggable gradient-descent / Adam optimizers.

* network: node arena, connector-model registry, wiring, per-worker
partitions, the ring-buffer event delivery used in tests, and tabular
reporting of synapse state.
*/
package nest
