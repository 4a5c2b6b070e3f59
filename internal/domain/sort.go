package domain

import "sort"

func sortCustomerMetrics(list []*CustomerMetrics) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Key, list[j].Key
		if a.ResellerCode != b.ResellerCode {
			return a.ResellerCode < b.ResellerCode
		}
		return a.Sector < b.Sector
	})
}
