// Package analytics derives vote statistics for the admin dashboard. All
// computation is pure: the caller supplies the vote list and the current
// time, and every trailing window uses that single captured instant.
package analytics

import (
	"sort"
	"time"
)

const (
	recentActivityLimit = 50
	topVotersLimit      = 10
	trailingDays        = 30
)

// Vote is one recorded vote. The input list is expected to be sorted by
// creation time descending, newest first, as the store returns it.
type Vote struct {
	SongID    string
	UserID    string
	CreatedAt time.Time
}

// VoteDetail is one (user, timestamp) record for a song.
type VoteDetail struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// SongRank is a song's position in the vote leaderboard.
type SongRank struct {
	SongID      string       `json:"songId"`
	Votes       int          `json:"votes"`
	VoteDetails []VoteDetail `json:"voteDetails"`
}

// VoterRank is a user's position among the most active voters.
type VoterRank struct {
	UserID string `json:"userId"`
	Votes  int    `json:"votes"`
}

// Activity is one entry in the recent-votes feed.
type Activity struct {
	SongID    string    `json:"songId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Overview carries the headline numbers.
type Overview struct {
	TotalVotes          int     `json:"totalVotes"`
	UniqueVoters        int     `json:"uniqueVoters"`
	TotalSongsWithVotes int     `json:"totalSongsWithVotes"`
	AvgVotesPerSong     float64 `json:"avgVotesPerSong"`
	VotesLast24h        int     `json:"votesLast24h"`
	VotesLast7Days      int     `json:"votesLast7Days"`
}

// Report is the full analytics payload.
type Report struct {
	Overview         Overview       `json:"overview"`
	TopSongs         []SongRank     `json:"topSongs"`
	VoteCounts       map[string]int `json:"voteCounts"`
	VotesPerDay      map[string]int `json:"votesPerDay"`
	VoteDistribution map[int]int    `json:"voteDistribution"`
	TopVoters        []VoterRank    `json:"topVoters"`
	RecentActivity   []Activity     `json:"recentActivity"`
	LastUpdated      time.Time      `json:"lastUpdated"`
}

// Compute builds a Report from the full vote list. now anchors every
// trailing-window calculation.
func Compute(votes []Vote, now time.Time) Report {
	voteCounts := make(map[string]int)
	voteDetails := make(map[string][]VoteDetail)
	votesPerUser := make(map[string]int)
	votesPerDay := make(map[string]int)

	// First-encounter orders keep the rankings stable across equal counts.
	var songOrder []string
	var userOrder []string

	thirtyDaysAgo := now.Add(-trailingDays * 24 * time.Hour)
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	votesLast24h := 0
	votesLast7Days := 0

	for _, vote := range votes {
		if voteCounts[vote.SongID] == 0 {
			songOrder = append(songOrder, vote.SongID)
		}
		voteCounts[vote.SongID]++
		voteDetails[vote.SongID] = append(voteDetails[vote.SongID], VoteDetail{
			UserID:    vote.UserID,
			Timestamp: vote.CreatedAt,
		})

		if votesPerUser[vote.UserID] == 0 {
			userOrder = append(userOrder, vote.UserID)
		}
		votesPerUser[vote.UserID]++

		if !vote.CreatedAt.Before(thirtyDaysAgo) {
			votesPerDay[vote.CreatedAt.UTC().Format("2006-01-02")]++
		}
		if !vote.CreatedAt.Before(dayAgo) {
			votesLast24h++
		}
		if !vote.CreatedAt.Before(weekAgo) {
			votesLast7Days++
		}
	}

	distribution := make(map[int]int)
	for _, count := range votesPerUser {
		distribution[count]++
	}

	topSongs := make([]SongRank, 0, len(songOrder))
	for _, songID := range songOrder {
		topSongs = append(topSongs, SongRank{
			SongID:      songID,
			Votes:       voteCounts[songID],
			VoteDetails: voteDetails[songID],
		})
	}
	sort.SliceStable(topSongs, func(i, j int) bool {
		return topSongs[i].Votes > topSongs[j].Votes
	})

	topVoters := make([]VoterRank, 0, len(userOrder))
	for _, userID := range userOrder {
		topVoters = append(topVoters, VoterRank{
			UserID: userID,
			Votes:  votesPerUser[userID],
		})
	}
	sort.SliceStable(topVoters, func(i, j int) bool {
		return topVoters[i].Votes > topVoters[j].Votes
	})
	if len(topVoters) > topVotersLimit {
		topVoters = topVoters[:topVotersLimit]
	}

	recent := make([]Activity, 0, recentActivityLimit)
	for _, vote := range votes {
		if len(recent) == recentActivityLimit {
			break
		}
		recent = append(recent, Activity{
			SongID:    vote.SongID,
			UserID:    vote.UserID,
			Timestamp: vote.CreatedAt,
		})
	}

	avgVotes := 0.0
	if len(voteCounts) > 0 {
		avgVotes = float64(len(votes)) / float64(len(voteCounts))
	}

	return Report{
		Overview: Overview{
			TotalVotes:          len(votes),
			UniqueVoters:        len(votesPerUser),
			TotalSongsWithVotes: len(voteCounts),
			AvgVotesPerSong:     avgVotes,
			VotesLast24h:        votesLast24h,
			VotesLast7Days:      votesLast7Days,
		},
		TopSongs:         topSongs,
		VoteCounts:       voteCounts,
		VotesPerDay:      votesPerDay,
		VoteDistribution: distribution,
		TopVoters:        topVoters,
		RecentActivity:   recent,
		LastUpdated:      now,
	}
}
