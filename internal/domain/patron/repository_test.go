package patron

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Save(ctx context.Context, p *Patron) error {
	ret := _m.Called(ctx, p)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Patron) error); ok {
		r0 = rf(ctx, p)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) FindByID(ctx context.Context, patronID int64) (*Patron, error) {
	ret := _m.Called(ctx, patronID)

	var r0 *Patron
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Patron); ok {
		r0 = rf(ctx, patronID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Patron)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, patronID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) FindAll(ctx context.Context) ([]*Patron, error) {
	ret := _m.Called(ctx)

	var r0 []*Patron
	if rf, ok := ret.Get(0).(func(context.Context) []*Patron); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*Patron)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) Delete(ctx context.Context, patronID int64) error {
	ret := _m.Called(ctx, patronID)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, patronID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
