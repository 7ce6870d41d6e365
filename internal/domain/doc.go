// Package domain models the county-level COVID-19, election and demographic
// snapshot that backs the dashboard.
//
// # Data Sources
//
// Three relations are read from the source database:
//
//	covid_counts(date, county, state, fips, cases, deaths)
//	politics(county, state, fips, gop_2016, gop_2020)
//	demographics(county, state, fips, white, college_or_higher, ruralness, population, unemployment_rate)
//
// Case and death counts come from The New York Times county dataset, filtered
// to a single snapshot date. Election results carry the GOP share of the vote
// for 2016 and 2020 as a proportion in [0, 1]. Demographics carry proportions
// (white, college_or_higher, unemployment_rate), a population count and the
// ruralness index (ordinal 0–8, 8 = most rural).
//
// # FIPS Conventions
//
// FIPS codes are five digits: two for the state, three for the county. Source
// columns may store them as integers, which drops the leading zero of states
// 01–09 (Alabama 1001 is "01001"). Every key is therefore parsed as an integer
// and rendered with %05d before joining. Codes >= 80000 are territories and
// statistical areas outside the county universe and are dropped from the
// covid relation. See [NormalizeFIPS].
//
// # Join Order
//
// The table is built in two left joins whose driving side differs:
//
//	step 1: covid ⟕ politics        (covid drives)
//	step 2: demographics ⟕ step 1   (demographics drives)
//
// The output row set is exactly the set of demographics rows that have a key:
// a demographics row whose FIPS is NULL or not an integer cannot be joined or
// mapped, so it is skipped and reported in [JoinReport.Skipped]. A county present in
// demographics but absent from covid carries null case, death and election
// fields; a county present only in covid or politics does not appear. Nulls
// are never imputed. See [Assemble].
package domain
