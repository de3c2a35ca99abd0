package consolidation

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/mapping"
)

// Unset marks an index entry no mapper has recorded yet.
const Unset chimera.Qubit = -1

// Index maps problem semantics to qubits: one representative qubit per
// tenant-server assignment variable, one per server activation variable,
// and the groups of qubits that represent a single variable and must
// therefore agree in an optimal assignment.
type Index struct {
	tenant [][]chimera.Qubit // [tenant][server]
	server []chimera.Qubit
	groups []*roaring.Bitmap
}

// NewIndex returns an index with every entry Unset.
func NewIndex(nrTenants, nrServers int) *Index {
	x := &Index{
		tenant: make([][]chimera.Qubit, nrTenants),
		server: make([]chimera.Qubit, nrServers),
	}
	for t := range x.tenant {
		x.tenant[t] = make([]chimera.Qubit, nrServers)
		for s := range x.tenant[t] {
			x.tenant[t][s] = Unset
		}
	}
	for s := range x.server {
		x.server[s] = Unset
	}
	return x
}

// NrTenants returns the tenant dimension.
func (x *Index) NrTenants() int { return len(x.tenant) }

// NrServers returns the server dimension.
func (x *Index) NrServers() int { return len(x.server) }

// SetTenantIndex records the qubit reading "tenant runs on server".
func (x *Index) SetTenantIndex(tenant, server int, q chimera.Qubit) {
	chimera.Check(q >= 0, "Index.SetTenantIndex", "negative qubit %d", q)
	x.tenant[tenant][server] = q
}

// TenantIndex returns the qubit recorded by SetTenantIndex; reading an
// unset entry panics.
func (x *Index) TenantIndex(tenant, server int) chimera.Qubit {
	q := x.tenant[tenant][server]
	chimera.Check(q != Unset, "Index.TenantIndex", "tenant %d server %d not indexed", tenant, server)
	return q
}

// SetServerIndex records the qubit reading "server is active".
func (x *Index) SetServerIndex(server int, q chimera.Qubit) {
	chimera.Check(q >= 0, "Index.SetServerIndex", "negative qubit %d", q)
	x.server[server] = q
}

// ServerIndex returns the qubit recorded by SetServerIndex.
func (x *Index) ServerIndex(server int) chimera.Qubit {
	q := x.server[server]
	chimera.Check(q != Unset, "Index.ServerIndex", "server %d not indexed", server)
	return q
}

// AddConsistentGroup records a copy of qubits as one consistency group.
func (x *Index) AddConsistentGroup(qubits *roaring.Bitmap) {
	chimera.Check(!qubits.IsEmpty(), "Index.AddConsistentGroup", "empty group")
	x.groups = append(x.groups, qubits.Clone())
}

// ConsistentGroups returns the recorded groups in insertion order.
// The bitmaps are shared; callers must not modify them.
func (x *Index) ConsistentGroups() []*roaring.Bitmap { return x.groups }

// Mapping is a finished embedding: the weight table together with the
// index needed to decode an assignment of its qubits.
type Mapping struct {
	*mapping.Mapping
	*Index
}

// NewMapping allocates an empty weight table over topo and an Unset index.
func NewMapping(topo chimera.Topology, nrTenants, nrServers int) *Mapping {
	return &Mapping{Mapping: mapping.New(topo), Index: NewIndex(nrTenants, nrServers)}
}
