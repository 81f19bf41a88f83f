package search

import (
	"context"

	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/capsulesearch/engine/store"
	"github.com/capsulesearch/engine/store/mocks"
)

var _ = gc.Suite(new(OrchestratorMockTestSuite))

type OrchestratorMockTestSuite struct{}

func (s *OrchestratorMockTestSuite) TestLexicalCandidatesQueriedBeforeInboundLinks(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().LexicalCandidates(gomock.Any(), "cats").Return([]store.LexicalRow{
			{SourceURL: "gemini://a.example/", ContentType: "text/gemini", Rank: 1},
		}, nil),
		mockStore.EXPECT().InboundLinks(gomock.Any(), "cats").Return(nil, nil),
	)
	mockStore.EXPECT().Snippets(gomock.Any(), "cats", []string{"gemini://a.example/"}).Return([]store.SnippetRow{
		{URL: "gemini://a.example/", Title: "Cats", ContentType: "text/gemini"},
	}, nil)

	orch, err := New(Config{Store: mockStore})
	c.Assert(err, gc.IsNil)

	resp, err := orch.Search(context.Background(), "cats", 1, false)
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSuccess)
}

func (s *OrchestratorMockTestSuite) TestLexicalCandidatesErrorPropagates(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().LexicalCandidates(gomock.Any(), "cats").Return(nil, store.ErrNotFound)

	orch, err := New(Config{Store: mockStore})
	c.Assert(err, gc.IsNil)

	_, err = orch.Search(context.Background(), "cats", 1, false)
	c.Check(err, gc.ErrorMatches, "(?s).*lexical candidates.*")
}
