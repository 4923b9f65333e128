package sqlinline

const QInsertUser = `--sql 3881233d-3022-4f35-9dcd-f426dd6c159c
insert into users (email, name, password_hash, profile)
values ($1::text, $2::text, $3::text, coalesce($4::jsonb, '{}'::jsonb))
returning id::text, email, name, password_hash, profile, created_at, updated_at;
`

const QSelectUserByID = `--sql 88a6ae37-269d-4e2b-9772-30a2e653c306
select id::text, email, name, password_hash, profile, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql afa993b1-a4e4-46f6-b1af-4f66d2beff4b
select id::text, email, name, password_hash, profile, created_at, updated_at
from users
where email = $1::text
limit 1;
`

const QUpdateUser = `--sql 7ded3406-dda5-48e2-aff4-b7766c5893f5
update users
set name = $2::text,
    email = $3::text,
    profile = coalesce($4::jsonb, '{}'::jsonb),
    updated_at = now()
where id = $1::uuid;
`

const QSetUserProfileField = `--sql 1adfd1d1-e9e1-4be9-8099-f7d047a0c93e
update users
set profile = jsonb_set(profile, array[$2::text], to_jsonb($3::text), true),
    updated_at = now()
where id = $1::uuid;
`
