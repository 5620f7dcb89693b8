package scoring

import "github.com/wonny/equityrank/internal/contracts"

// Peers holds the usable values of each profile metric across one comparison group
type Peers map[contracts.Metric][]float64

// CollectPeers gathers, for every metric in profile, the non-missing values across companies.
// Callers pass the already sector-filtered group.
func CollectPeers(companies []contracts.MetricSet, profile *contracts.ProfileConfig) Peers {
	peers := make(Peers, profile.Len())
	for _, e := range profile.Entries() {
		values := make([]float64, 0, len(companies))
		for i := range companies {
			v := companies[i].Value(e.Metric)
			if contracts.IsMissing(v) {
				continue
			}
			values = append(values, *v)
		}
		peers[e.Metric] = values
	}
	return peers
}
