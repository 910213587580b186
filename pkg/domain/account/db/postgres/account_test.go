//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/opst/vettracker/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/vettracker/pkg/domain"
	kpgaccount "github.com/opst/vettracker/pkg/domain/account/db/postgres"
	kpgowner "github.com/opst/vettracker/pkg/domain/owner/db/postgres"
	kpgveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db/postgres"
	"github.com/opst/vettracker/pkg/utils/try"
)

func TestTaken(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)

	alice := try.To(kpgowner.New(pool).Create(ctx, domain.Owner{
		Profile: domain.Profile{UserName: "alice", Email: "alice@example.com", FullName: "Alice"},
	})).OrFatal(t)
	doc := try.To(kpgveterinarian.New(pool).Create(ctx, domain.Veterinarian{
		Profile: domain.Profile{UserName: "doc", Email: "doc@example.com", FullName: "Dr. doc"},
	})).OrFatal(t)

	testee := kpgaccount.New(pool)

	for name, testcase := range map[string]struct {
		userName, email string
		except          *domain.Recipient
		wantUserName    bool
		wantEmail       bool
	}{
		"a new account": {
			userName: "bob", email: "bob@example.com",
		},
		"the username of an owner": {
			userName: "ALICE", email: "bob@example.com", wantUserName: true,
		},
		"the email of a veterinarian": {
			userName: "bob", email: "Doc@Example.com", wantEmail: true,
		},
		"the username of an owner and the email of a veterinarian": {
			userName: "alice", email: "doc@example.com", wantUserName: true, wantEmail: true,
		},
		"the own account of the owner": {
			userName: "alice", email: "alice@example.com",
			except: &domain.Recipient{Role: domain.RoleOwner, UserId: alice.Id},
		},
		"the own account of the veterinarian": {
			userName: "doc", email: "doc@example.com",
			except: &domain.Recipient{Role: domain.RoleVeterinarian, UserId: doc.Id},
		},
		"an account of another role with the same id": {
			userName: "doc", email: "bob@example.com",
			except:       &domain.Recipient{Role: domain.RoleOwner, UserId: doc.Id},
			wantUserName: true,
		},
		"empty fields": {},
	} {
		t.Run("When "+name+" is checked, it should tell what is taken", func(t *testing.T) {
			userNameTaken, emailTaken, err := testee.Taken(ctx, testcase.userName, testcase.email, testcase.except)
			if err != nil {
				t.Fatal(err)
			}
			if userNameTaken != testcase.wantUserName || emailTaken != testcase.wantEmail {
				t.Errorf(
					"(userName, email) taken: (actual, expected) = ((%v, %v), (%v, %v))",
					userNameTaken, emailTaken, testcase.wantUserName, testcase.wantEmail,
				)
			}
		})
	}
}
