package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

func TestRunList_Add(t *testing.T) {
	t.Run("keeps first-seen order of studies and runs", func(t *testing.T) {
		list := model.NewRunList()
		gt.NoError(t, list.Add("S2", "SRR3", "SRR1"))
		gt.NoError(t, list.Add("S1", "SRR2"))
		gt.NoError(t, list.Add("S2", "SRR4"))

		studies := list.Studies()
		gt.A(t, studies).Length(2)
		gt.Equal(t, studies[0].Name, "S2")
		gt.Equal(t, studies[0].Runs, []model.RunAccession{"SRR3", "SRR1", "SRR4"})
		gt.Equal(t, studies[1].Name, "S1")
		gt.Equal(t, list.Len(), 4)
	})

	t.Run("collapses duplicates within a study", func(t *testing.T) {
		list := model.NewRunList()
		gt.NoError(t, list.Add("S1", "SRR1", "SRR2", "SRR1"))
		gt.NoError(t, list.Add("S1", "SRR2"))

		s, ok := list.Study("S1")
		gt.True(t, ok)
		gt.Equal(t, s.Runs, []model.RunAccession{"SRR1", "SRR2"})
	})

	t.Run("rejects a run under two studies", func(t *testing.T) {
		list := model.NewRunList()
		gt.NoError(t, list.Add("S1", "SRR1"))

		err := list.Add("S2", "SRR9", "SRR1")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagResolution))

		// nothing from the rejected call is kept
		_, ok := list.Study("S2")
		gt.False(t, ok)
		gt.Equal(t, list.Len(), 1)
	})

	t.Run("rejects empty study name", func(t *testing.T) {
		list := model.NewRunList()
		gt.Error(t, list.Add("", "SRR1"))
	})

	t.Run("study without runs is registered", func(t *testing.T) {
		list := model.NewRunList()
		gt.NoError(t, list.Add("S1"))
		gt.A(t, list.Studies()).Length(1)
		gt.Equal(t, list.Len(), 0)
	})
}

func TestGroupAssignments(t *testing.T) {
	rows := []model.Assignment{
		{Study: "B", Accession: "SRR1"},
		{Study: "A", Accession: "SRR2"},
		{Study: "B", Accession: "SRR3"},
		{Study: "B", Accession: "SRR3"},
		{Study: "C", Accession: ""},
	}

	studies := model.GroupAssignments(rows)
	gt.A(t, studies).Length(3)
	gt.Equal(t, studies[0].Name, "B")
	gt.Equal(t, studies[0].Runs, []model.RunAccession{"SRR1", "SRR3", "SRR3"})
	gt.Equal(t, studies[1].Runs, []model.RunAccession{"SRR2"})
	gt.Equal(t, studies[2].Name, "C")
	gt.A(t, studies[2].Runs).Length(0)
}

func TestDispatchReport(t *testing.T) {
	r := &model.DispatchReport{}
	gt.False(t, r.HasFailure())

	r.Succeeded = append(r.Succeeded, model.FetchOutcome{Study: "S1", Run: "SRR1"})
	r.Failed = append(r.Failed, model.FetchOutcome{Study: "S1", Run: "SRR2"})
	gt.True(t, r.HasFailure())
	gt.Equal(t, r.Total(), 2)
}

func TestNewAccession(t *testing.T) {
	gt.Equal(t, model.NewRunAccession("  SRR1\t"), model.RunAccession("SRR1"))
	gt.Equal(t, model.NewProjectAccession(" PRJNA1 "), model.ProjectAccession("PRJNA1"))
}
